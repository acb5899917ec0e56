package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/park285/chess-recap/internal/geom"
	"github.com/park285/chess-recap/pkg/score"
)

// The background is rendered at this linear factor and downscaled with a
// filtered scaler, which anti-aliases the polygon edges cheaply.
const graphSupersample = 4

var (
	graphBlackShade = color.NRGBA{R: 0x51, G: 0x4f, B: 0x4c, A: 0xff}
	graphWhiteShade = color.NRGBA{R: 0x7f, G: 0x7e, B: 0x7c, A: 0xff}
	graphAxisColor  = color.NRGBA{R: 0x7d, G: 0x7d, B: 0x7d, A: 0xff}
	graphMarkColor  = color.NRGBA{R: 0xff, A: 0xff}
)

// Graph renders the evaluation graph in two phases: a static supersampled
// background computed once per render, and a per-ply marker overlay that
// is drawn before the downscale so it gets the same anti-aliasing.
type Graph struct {
	outWidth  int
	outHeight int
	width     int
	height    int
	lineWidth int
	maxEval   int
	scores    []score.Score
	bg        *image.RGBA
}

// NewGraph precomputes the graph background for the given white-relative
// score sequence (one entry per ply, index 0 = starting position).
func NewGraph(scores []score.Score, width, height, maxEval, lineWidth int) (*Graph, error) {
	if len(scores) < 2 {
		return nil, &InvalidConfigurationError{Field: "graph scores", Reason: "need at least two plies"}
	}
	g := &Graph{
		outWidth:  width,
		outHeight: height,
		width:     width * graphSupersample,
		height:    height * graphSupersample,
		lineWidth: lineWidth * graphSupersample,
		maxEval:   maxEval,
		scores:    scores,
	}
	g.bg = g.drawBackground()
	return g, nil
}

// position maps (score, ply) onto the supersampled raster. x grows
// linearly with the ply index; y is the sign-preserving score map with
// white advantage near the top.
func (g *Graph) position(sc score.Score, ply int) geom.Coord {
	x := math.Floor(float64(g.width) / float64(len(g.scores)-1) * float64(ply))
	y := math.Floor((1 - sc.Norm(g.maxEval)) * float64(g.height-1) / 2)
	return geom.Coord{X: int(x), Y: int(y)}
}

func (g *Graph) drawBackground() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	shade := func(blackFavored bool) plotFunc {
		if blackFavored {
			return setPlot(img, graphBlackShade)
		}
		return setPlot(img, graphWhiteShade)
	}

	points := make([]geom.Coord, len(g.scores))
	for ply, sc := range g.scores {
		points[ply] = g.position(sc, ply)
		if ply == 0 {
			continue
		}

		prev := g.scores[ply-1].Norm(g.maxEval)
		cur := sc.Norm(g.maxEval)
		zeroPrev := g.position(score.Cp(0), ply-1)
		zeroNew := g.position(score.Cp(0), ply)

		if cur*prev < 0 {
			// The curve crosses the zero axis inside this segment: split
			// the fill at the exact crossing so each part keeps its own
			// side's shade.
			cross, ok := geom.LineIntersection(points[ply-1], points[ply], zeroPrev, zeroNew)
			if ok {
				fillTriangle(coordF(zeroPrev), coordF(points[ply-1]), cross, shade(prev < 0))
				fillTriangle(cross, coordF(points[ply]), coordF(zeroNew), shade(cur < 0))
			}
			continue
		}

		blackFavored := cur < 0
		if cur == 0 {
			blackFavored = prev < 0
		}
		fillQuad(coordF(zeroPrev), coordF(points[ply-1]), coordF(points[ply]), coordF(zeroNew), shade(blackFavored))
	}

	line := setPlot(img, color.White)
	for ply := 1; ply < len(points); ply++ {
		drawThickLine(points[ply-1], points[ply], float64(g.lineWidth), line)
	}

	axis := setPlot(img, graphAxisColor)
	drawThickLine(
		g.position(score.Cp(0), 0),
		g.position(score.Cp(0), len(g.scores)-1),
		float64(g.lineWidth),
		axis,
	)
	return img
}

// AtPly returns the graph with a marker at the given ply, downscaled to
// the output size. Requests outside the game range fail with
// MoveOutOfRangeError.
func (g *Graph) AtPly(ply int) (*image.RGBA, error) {
	if ply < 0 || ply >= len(g.scores) {
		return nil, &MoveOutOfRangeError{Requested: ply, Max: len(g.scores) - 1}
	}

	frame := image.NewRGBA(g.bg.Bounds())
	copy(frame.Pix, g.bg.Pix)
	drawDisc(g.position(g.scores[ply], ply), 3+g.lineWidth, setPlot(frame, graphMarkColor))

	out := image.NewRGBA(image.Rect(0, 0, g.outWidth, g.outHeight))
	xdraw.CatmullRom.Scale(out, out.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
	return out, nil
}
