package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"GMT", "Fri, 04 Jul 2025 07:51:28 GMT", time.Date(2025, 7, 4, 7, 51, 28, 0, time.UTC), false},
		{"Numeric zone", "Fri, 04 Jul 2025 15:51:28 +0800", time.Date(2025, 7, 4, 7, 51, 28, 0, time.UTC), false},
		{"Single digit day", "Fri, 4 Jul 2025 07:51:28 GMT", time.Date(2025, 7, 4, 7, 51, 28, 0, time.UTC), false},
		{"Garbage", "yesterday", time.Time{}, true},
		{"Empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrTimestamp)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "2025年07月04日 15:51", Label("Fri, 04 Jul 2025 07:51:28 GMT", fixedNow))
	assert.Equal(t, "2025年07月05日 01:30", Label("Fri, 04 Jul 2025 17:30:00 GMT", fixedNow))
	assert.Equal(t, "sometime", Label("sometime", fixedNow))
	assert.Equal(t, "2025年01月02日 11:04", Label("", fixedNow))
}

func TestFileStamp(t *testing.T) {
	assert.Equal(t, "20250704_155128", FileStamp("Fri, 04 Jul 2025 07:51:28 GMT", fixedNow))
	assert.Equal(t, "20250102_110405", FileStamp("not a date", fixedNow))
	assert.Equal(t, "20250102_110405", FileStamp("", fixedNow))
}

func TestCivil_FixedOffsetFallback(t *testing.T) {
	ts := time.Date(2025, 7, 4, 7, 51, 28, 0, time.UTC)

	assert.Equal(t, "2025-07-04 15:51", civil(ts, nil).Format("2006-01-02 15:04"))
	assert.Equal(t, "2025-07-04 15:51", civil(ts, time.FixedZone("CST", 8*3600)).Format("2006-01-02 15:04"))
}
