package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/park285/chess-recap/internal/assets/fonts"
)

type textAnchor uint8

const (
	anchorLeftMiddle textAnchor = iota
	anchorRightMiddle
	anchorTopCenter
	anchorBottomCenter
	anchorCenterMiddle
)

// fontSizeApprox picks a point size so that text rendered with the
// default face fits roughly fraction*width pixels: it measures the text
// at a large reference size and scales down proportionally, never going
// below minSize.
func fontSizeApprox(text string, width int, fraction float64, minSize int) (int, error) {
	const reference = 100
	face, err := fonts.Face(reference)
	if err != nil {
		return 0, err
	}
	defer face.Close()

	measured := font.MeasureString(face, text).Round()
	if measured <= 0 {
		return minSize, nil
	}
	size := int(reference * float64(width) * fraction / float64(measured))
	if size < minSize {
		size = minSize
	}
	return size, nil
}

// drawText draws text relative to the (x, y) anchor point.
func drawText(dst draw.Image, text string, face font.Face, clr color.Color, x, y int, anchor textAnchor) {
	if text == "" {
		return
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: face,
	}
	metrics := face.Metrics()
	width := drawer.MeasureString(text).Round()

	bx, by := x, y
	switch anchor {
	case anchorLeftMiddle:
		by = y + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	case anchorRightMiddle:
		bx = x - width
		by = y + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	case anchorTopCenter:
		bx = x - width/2
		by = y + metrics.Ascent.Ceil()
	case anchorBottomCenter:
		bx = x - width/2
		by = y - metrics.Descent.Ceil()
	case anchorCenterMiddle:
		bx = x - width/2
		by = y + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	}

	drawer.Dot = fixed.P(bx, by)
	drawer.DrawString(text)
}
