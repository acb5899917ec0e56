package render

import (
	"image"
	"image/color"
	"math"

	"github.com/park285/chess-recap/internal/geom"
)

// plotFunc receives the integer pixels covered by a primitive. Callers
// decide whether covered pixels are set or blended.
type plotFunc func(x, y int)

func setPlot(dst *image.RGBA, clr color.Color) plotFunc {
	bounds := dst.Bounds()
	return func(x, y int) {
		if (image.Point{X: x, Y: y}).In(bounds) {
			dst.Set(x, y, clr)
		}
	}
}

func coordF(c geom.Coord) geom.CoordF {
	return geom.CoordF{X: float64(c.X), Y: float64(c.Y)}
}

func fillTriangle(a, b, c geom.CoordF, plot plotFunc) {
	minX := int(math.Floor(minFloat(a.X, minFloat(b.X, c.X))))
	maxX := int(math.Ceil(maxFloat(a.X, maxFloat(b.X, c.X))))
	minY := int(math.Floor(minFloat(a.Y, minFloat(b.Y, c.Y))))
	maxY := int(math.Ceil(maxFloat(a.Y, maxFloat(b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				plot(x, y)
			}
		}
	}
}

func fillQuad(a, b, c, d geom.CoordF, plot plotFunc) {
	fillTriangle(a, b, c, plot)
	fillTriangle(a, c, d, plot)
}

// drawThickLine fills the rectangle obtained by expanding segment (a, b)
// by width/2 on both sides, the raster equivalent of a butt-capped line.
func drawThickLine(a, b geom.Coord, width float64, plot plotFunc) {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	perpX := -dy / length * width / 2
	perpY := dx / length * width / 2

	fillQuad(
		geom.CoordF{X: float64(a.X) - perpX, Y: float64(a.Y) - perpY},
		geom.CoordF{X: float64(a.X) + perpX, Y: float64(a.Y) + perpY},
		geom.CoordF{X: float64(b.X) + perpX, Y: float64(b.Y) + perpY},
		geom.CoordF{X: float64(b.X) - perpX, Y: float64(b.Y) - perpY},
		plot,
	)
}

func drawDisc(center geom.Coord, radius int, plot plotFunc) {
	if radius <= 0 {
		plot(center.X, center.Y)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			plot(center.X+x, center.Y+y)
		}
	}
}

func pointInTriangle(x, y float64, a, b, c geom.CoordF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
