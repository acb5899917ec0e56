package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/park285/chess-recap/internal/assets/fonts"
	"github.com/park285/chess-recap/pkg/score"
)

const (
	evalBarLabelFraction = 0.75
	evalBarMinFontSize   = 10
)

// EvalBar renders the vertical evaluation bar for one white-relative
// score: a black column with a white fill proportional to the score and a
// small label on the edge away from the leading side's fill.
type EvalBar struct {
	width   int
	height  int
	maxEval int
	reverse bool
	canvas  *image.RGBA
}

func NewEvalBar(width, height int, sc score.Score, maxEval int, reverse bool) (*EvalBar, error) {
	b := &EvalBar{
		width:   width,
		height:  height,
		maxEval: maxEval,
		reverse: reverse,
	}
	if err := b.draw(sc); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *EvalBar) draw(sc score.Score) error {
	b.canvas = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	draw.Draw(b.canvas, b.canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	boundary := b.boundary(sc)
	var fill image.Rectangle
	if b.reverse {
		fill = image.Rect(0, 0, b.width, boundary)
	} else {
		fill = image.Rect(0, boundary, b.width, b.height)
	}
	draw.Draw(b.canvas, fill, image.NewUniform(color.White), image.Point{}, draw.Src)

	label := formatScoreLabel(sc)

	var labelColor color.Color
	var labelY int
	var labelAnchor textAnchor
	if sc.CP(b.maxEval) > 0 {
		// White leads: the label sits against white's fill, in black.
		labelColor = color.Black
		if b.reverse {
			labelY, labelAnchor = 0, anchorTopCenter
		} else {
			labelY, labelAnchor = b.height, anchorBottomCenter
		}
	} else {
		labelColor = color.White
		if b.reverse {
			labelY, labelAnchor = b.height, anchorBottomCenter
		} else {
			labelY, labelAnchor = 0, anchorTopCenter
		}
	}

	size, err := fontSizeApprox(label, b.width, evalBarLabelFraction, evalBarMinFontSize)
	if err != nil {
		return err
	}
	face, err := fonts.Face(float64(size))
	if err != nil {
		return err
	}
	defer face.Close()
	drawText(b.canvas, label, face, labelColor, b.width/2, labelY, labelAnchor)
	return nil
}

// boundary returns the y pixel of the fill edge for the given score.
func (b *EvalBar) boundary(sc score.Score) int {
	y := (sc.Norm(b.maxEval) + 1) * float64(b.height) / 2
	if !b.reverse {
		y = float64(b.height) - y
	}
	return int(math.Floor(y))
}

// Image returns the rendered bar raster.
func (b *EvalBar) Image() *image.RGBA { return b.canvas }

// formatScoreLabel renders centipawns as a signed one-decimal pawn value
// and mates as M<distance>.
func formatScoreLabel(sc score.Score) string {
	if dist, ok := sc.MateDistance(); ok {
		return fmt.Sprintf("M%d", dist)
	}
	cp, _ := sc.Centipawns()
	return fmt.Sprintf("%+.1f", float64(cp)/100)
}
