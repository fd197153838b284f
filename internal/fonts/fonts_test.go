package fonts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/fonts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func TestNewResolver_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GoRegular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	r := fonts.NewResolver(path)

	assert.Equal(t, path, r.Path())
	assert.False(t, r.Builtin())
}

func TestNewResolver_BrokenFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	r := fonts.NewResolver(path)

	assert.NotEqual(t, path, r.Path())
	assert.NotNil(t, r.Face(fonts.RoleContent, entity.StandardProfile()))
}

func TestResolver_Face(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GoRegular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	r := fonts.NewResolver(path)
	standard := entity.StandardProfile()
	ultra := entity.UltraHDProfile()

	small := r.Face(fonts.RoleTime, standard)
	large := r.Face(fonts.RoleName, standard)
	scaled := r.Face(fonts.RoleName, ultra)

	assert.Less(t, small.Metrics().Height, large.Metrics().Height)
	assert.Less(t, large.Metrics().Height, scaled.Metrics().Height)

	// Fresh face per call
	assert.NotSame(t, r.Face(fonts.RoleContent, standard), r.Face(fonts.RoleContent, standard))

	w := font.MeasureString(r.Face(fonts.RoleContent, standard), "Weibo")
	assert.Positive(t, w.Ceil())
}

func TestSize(t *testing.T) {
	p := entity.StandardProfile()

	assert.InDelta(t, 22.0, fonts.Size(fonts.RoleName, p), 0.001)
	assert.InDelta(t, 16.0, fonts.Size(fonts.RoleTime, p), 0.001)
	assert.InDelta(t, 20.0, fonts.Size(fonts.RoleContent, p), 0.001)
	assert.InDelta(t, 64.0, fonts.Size(fonts.RoleContent, entity.UltraHDProfile()), 0.001)
}
