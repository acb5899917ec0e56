package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas stitches the rendered layers into one frame. The layout is
// fixed: the bar attaches right of the board, headers band the top and
// bottom (order swapped when the board is reversed) and the graph always
// occupies the bottom of the frame. Disabled layers have size zero, so a
// board-only canvas is exactly the board size.
type Canvas struct {
	boardSize  int
	barSize    int
	graphSize  int
	headerSize int
	reverse    bool
	img        *image.RGBA
}

func NewCanvas(boardSize, barSize, graphSize, headerSize int, reverse bool) *Canvas {
	c := &Canvas{
		boardSize:  boardSize,
		barSize:    barSize,
		graphSize:  graphSize,
		headerSize: headerSize,
		reverse:    reverse,
	}
	w, h := c.Size()
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return c
}

// Size returns the full frame size.
func (c *Canvas) Size() (int, int) {
	return c.boardSize + c.barSize,
		c.boardSize + c.graphSize + c.headerSize*2
}

func (c *Canvas) paste(img image.Image, x, y int) {
	bounds := img.Bounds()
	rect := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(c.img, rect, img, bounds.Min, draw.Over)
}

func (c *Canvas) AddBoard(img image.Image) {
	c.paste(img, 0, c.headerSize)
}

func (c *Canvas) AddBar(img image.Image) {
	c.paste(img, c.boardSize, c.headerSize)
}

func (c *Canvas) AddGraph(img image.Image) {
	_, h := c.Size()
	c.paste(img, 0, h-c.graphSize)
}

func (c *Canvas) AddHeaders(white, black image.Image) {
	whiteY := c.headerSize + c.boardSize
	blackY := 0
	if c.reverse {
		whiteY, blackY = blackY, whiteY
	}
	c.paste(white, 0, whiteY)
	c.paste(black, 0, blackY)
}

// Image returns the composited frame.
func (c *Canvas) Image() *image.RGBA { return c.img }
