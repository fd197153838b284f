// Package fonts locates and loads the font used to draw post text.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/entity"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Role is what a face is used for on the canvas.
type Role int

const (
	RoleName Role = iota
	RoleTime
	RoleContent
)

const dpi = 72

// ErrNoFont is logged when no CJK capable font could be loaded and the
// built-in Latin font is used instead.
var ErrNoFont = errors.New("no usable font found")

// candidateNames are tried in order when no font path is configured.
var candidateNames = []string{
	"SourceHanSansCN-Regular.otf",
	"SourceHanSansCN-Regular.ttf",
	"NotoSansCJKsc-Regular.otf",
	"NotoSansCJK-Regular.ttc",
	"NotoSansCJKsc-Regular.ttf",
	"SourceHanSerifCN-Regular.otf",
	"wqy-microhei.ttc",
	"wqy-zenhei.ttc",
	"msyh.ttc",
	"simhei.ttf",
	"simsun.ttc",
	"PingFang.ttc",
	"uming.ttc",
}

var builtin = sync.OnceValue(func() *truetype.Font {
	f, err := truetype.Parse(goregular.TTF)

	if err != nil {
		panic(fmt.Sprintf("could not parse built-in font: %v", err))
	}

	return f
})

// Resolver holds one parsed font shared by all renders. Faces are not safe
// for concurrent use, so every caller gets its own.
type Resolver struct {
	path string
	ttf  *truetype.Font
	otf  *opentype.Font
}

// NewResolver loads the font at path, or the first installed CJK candidate
// when path is empty or unusable. It falls back to the built-in Go font.
func NewResolver(path string) *Resolver {
	log := app.Logger()

	if path != "" {
		r, err := load(path)

		if err == nil {
			log.Debug("Font loaded", "path", path)
			return r
		}

		log.Warn("Could not load configured font", "path", path, "error", err)
	}

	for _, name := range candidateNames {
		found, err := findfont.Find(name)

		if err != nil || !strings.EqualFold(filepath.Base(found), name) {
			continue
		}

		r, err := load(found)

		if err != nil {
			log.Warn("Could not load font candidate", "path", found, "error", err)
			continue
		}

		log.Debug("Font loaded", "path", found)

		return r
	}

	log.Warn("Using built-in font, CJK text will not render", "error", ErrNoFont)

	return &Resolver{ttf: builtin()}
}

func load(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("could not read font file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		collection, err := opentype.ParseCollection(data)

		if err != nil {
			return nil, fmt.Errorf("could not parse font collection: %w", err)
		}

		f, err := collection.Font(0)

		if err != nil {
			return nil, fmt.Errorf("could not read font from collection: %w", err)
		}

		return &Resolver{path: path, otf: f}, nil
	case ".ttf":
		if f, err := truetype.Parse(data); err == nil {
			return &Resolver{path: path, ttf: f}, nil
		}
	}

	f, err := opentype.Parse(data)

	if err != nil {
		return nil, fmt.Errorf("could not parse font: %w", err)
	}

	return &Resolver{path: path, otf: f}, nil
}

// Path is the loaded font file, empty for the built-in font.
func (r *Resolver) Path() string {
	return r.path
}

// Builtin reports whether the fallback font is in use.
func (r *Resolver) Builtin() bool {
	return r.path == ""
}

// Face returns a new face sized for role.
func (r *Resolver) Face(role Role, p entity.Profile) font.Face {
	size := Size(role, p)

	if r.otf != nil {
		face, err := opentype.NewFace(r.otf, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})

		if err == nil {
			return face
		}

		app.Logger().Warn("Could not create font face", "path", r.path, "error", err)

		return truetype.NewFace(builtin(), &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
	}

	return truetype.NewFace(r.ttf, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
}

// Size is the point size of role in profile p.
func Size(role Role, p entity.Profile) float64 {
	switch role {
	case RoleName:
		return p.NameFontSize
	case RoleTime:
		return p.TimeFontSize
	default:
		return p.ContentFontSize
	}
}

// Candidates lists the installed files matching the known CJK font names.
func Candidates() []string {
	var found []string

	for _, name := range candidateNames {
		if path, err := findfont.Find(name); err == nil && strings.EqualFold(filepath.Base(path), name) {
			found = append(found, path)
		}
	}

	return found
}

// Installed lists every font file in the system font directories.
func Installed() []string {
	return findfont.List()
}
