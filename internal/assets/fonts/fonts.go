// Package fonts exposes opentype faces for label and header text.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	once     sync.Once
	parsed   *opentype.Font
	parseErr error
)

func load() (*opentype.Font, error) {
	once.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a face at the given point size (72 DPI).
func Face(size float64) (font.Face, error) {
	f, err := load()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
