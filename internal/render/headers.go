package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"

	"github.com/park285/chess-recap/internal/assets"
	"github.com/park285/chess-recap/internal/assets/fonts"
)

// HeaderData carries the per-frame header content. Clocks are the time
// remaining after each side's most recent move; a nil clock hides the
// field for that side.
type HeaderData struct {
	WhiteName  string
	BlackName  string
	WhiteClock *time.Duration
	BlackClock *time.Duration
	Captures   []nchess.Piece
}

// Headers renders the two player bars: background fill, left-anchored
// name, right-anchored clock and a strip of captured-piece icons placed
// after the longer of the two names.
type Headers struct {
	width  int
	height int
	white  *image.RGBA
	black  *image.RGBA
}

func NewHeaders(data HeaderData, width, height int, pieceTheme PieceTheme, cache *assets.Cache) (*Headers, error) {
	if cache == nil {
		cache = assets.NewCache()
	}
	if pieceTheme == "" {
		pieceTheme = PieceThemeAlpha
	}
	h := &Headers{width: width, height: height}

	face, err := fonts.Face(float64(height) * 0.7)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	h.white = h.drawBar(face, color.White, color.Black, data.WhiteName, data.WhiteClock)
	h.black = h.drawBar(face, color.Black, color.White, data.BlackName, data.BlackClock)

	// Captured pieces go on the captor's opponent bar: pieces lost by
	// white show up on black's bar and vice versa.
	pieceSize := height - 2
	offset := maxInt(
		font.MeasureString(face, data.WhiteName).Round(),
		font.MeasureString(face, data.BlackName).Round(),
	) + height
	taken := map[nchess.Color]int{}
	for _, piece := range data.Captures {
		img, err := cache.Image(pieceAssetName(pieceTheme, piece), pieceSize)
		if err != nil {
			return nil, err
		}
		x := offset + pieceSize*taken[piece.Color()]
		rect := image.Rect(x, 1, x+pieceSize, 1+pieceSize)
		if piece.Color() == nchess.White {
			draw.Draw(h.black, rect, img, image.Point{}, draw.Over)
		} else {
			draw.Draw(h.white, rect, img, image.Point{}, draw.Over)
		}
		taken[piece.Color()]++
	}

	return h, nil
}

func (h *Headers) drawBar(face font.Face, bg, fg color.Color, name string, clock *time.Duration) *image.RGBA {
	bar := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	draw.Draw(bar, bar.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	drawText(bar, name, face, fg, 3, h.height/2, anchorLeftMiddle)
	if clock != nil {
		drawText(bar, formatClock(*clock), face, fg, h.width-3, h.height/2, anchorRightMiddle)
	}
	return bar
}

// Side returns the header bar for the given color.
func (h *Headers) Side(c nchess.Color) *image.RGBA {
	if c == nchess.White {
		return h.white
	}
	return h.black
}

// formatClock renders a duration as H:MM:SS, rounding to whole seconds.
func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
