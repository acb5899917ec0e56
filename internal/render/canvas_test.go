package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, clr color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(clr), image.Point{}, draw.Src)
	return img
}

func TestCanvasSize(t *testing.T) {
	c := NewCanvas(480, 20, 50, 10, false)
	w, h := c.Size()
	if w != 500 || h != 550 {
		t.Fatalf("size = (%d,%d), want (500,550)", w, h)
	}

	// A board-only canvas collapses to the board.
	c = NewCanvas(480, 0, 0, 0, false)
	w, h = c.Size()
	if w != 480 || h != 480 {
		t.Fatalf("board-only size = (%d,%d), want (480,480)", w, h)
	}
}

func TestCanvasLayout(t *testing.T) {
	c := NewCanvas(480, 20, 50, 10, false)

	red := color.RGBA{R: 0xff, A: 0xff}
	green := color.RGBA{G: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	gray := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	c.AddBoard(solid(480, 480, red))
	c.AddBar(solid(20, 480, green))
	c.AddGraph(solid(500, 50, blue))
	c.AddHeaders(solid(500, 10, gray), solid(500, 10, white))

	img := c.Image()
	cases := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 10, red},     // board below the black header
		{479, 489, red},  // board bottom-right corner
		{480, 10, green}, // bar right of the board
		{0, 549, blue},   // graph at the very bottom
		{250, 5, white},  // black header band at the top
		{250, 495, gray}, // white header band below the board
	}
	for _, cse := range cases {
		if got := img.RGBAAt(cse.x, cse.y); got != cse.want {
			t.Fatalf("pixel (%d,%d) = %+v, want %+v", cse.x, cse.y, got, cse.want)
		}
	}
}

func TestCanvasLayoutReversed(t *testing.T) {
	c := NewCanvas(480, 0, 0, 10, true)

	whiteBar := color.RGBA{R: 1, G: 1, B: 1, A: 0xff}
	blackBar := color.RGBA{R: 2, G: 2, B: 2, A: 0xff}
	c.AddHeaders(solid(480, 10, whiteBar), solid(480, 10, blackBar))

	img := c.Image()
	if got := img.RGBAAt(0, 5); got != whiteBar {
		t.Fatalf("reversed top header = %+v, want white's bar", got)
	}
	if got := img.RGBAAt(0, 495); got != blackBar {
		t.Fatalf("reversed bottom header = %+v, want black's bar", got)
	}
}
