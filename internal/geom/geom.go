// Package geom holds the small pixel-space geometry kernel used by the
// board and graph renderers. All functions use screen coordinates where
// y grows downward, so rotation and angle signs are flipped relative to
// the usual mathematical convention.
package geom

import "math"

// Coord is an integer pixel coordinate.
type Coord struct {
	X int
	Y int
}

// CoordF is a sub-pixel coordinate, used for polygon vertices before
// they are rounded onto the raster.
type CoordF struct {
	X float64
	Y float64
}

// RotateAround rotates p around origin by the given angle in radians and
// truncates the result to integer pixels. Positive angles rotate
// counter-clockwise on screen (clockwise in math terms).
func RotateAround(p Coord, radians float64, origin Coord) Coord {
	sin, cos := math.Sincos(radians)
	dx := float64(p.X - origin.X)
	dy := float64(p.Y - origin.Y)
	return Coord{
		X: int(float64(origin.X) + cos*dx + sin*dy),
		Y: int(float64(origin.Y) - sin*dx + cos*dy),
	}
}

// AngleBetween returns the screen-space angle of the line from a to b in
// radians. A line pointing straight down returns -pi/2.
func AngleBetween(a, b Coord) float64 {
	return -math.Atan2(float64(b.Y-a.Y), float64(b.X-a.X))
}

// ShortenLine moves b toward a by pix pixels along the segment direction
// and returns the new segment. A zero-length segment collapses to (a, a).
func ShortenLine(a, b Coord, pix int) (Coord, Coord) {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length > 0 {
		dx /= length
		dy /= length
	}
	dx *= length - float64(pix)
	dy *= length - float64(pix)
	return a, Coord{X: a.X + int(dx), Y: a.Y + int(dy)}
}

// LineIntersection intersects the two infinite lines through segments
// (a1,a2) and (b1,b2). The boolean is false when the lines are parallel
// or coincident. The intersection keeps sub-pixel precision.
func LineIntersection(a1, a2, b1, b2 Coord) (CoordF, bool) {
	xd1 := float64(a1.X - a2.X)
	yd1 := float64(a1.Y - a2.Y)
	xd2 := float64(b1.X - b2.X)
	yd2 := float64(b1.Y - b2.Y)

	div := det(xd1, yd1, xd2, yd2)
	if div == 0 {
		return CoordF{}, false
	}

	d1 := det(float64(a1.X), float64(a1.Y), float64(a2.X), float64(a2.Y))
	d2 := det(float64(b1.X), float64(b1.Y), float64(b2.X), float64(b2.Y))
	return CoordF{
		X: det(d1, d2, xd1, xd2) / div,
		Y: det(d1, d2, yd1, yd2) / div,
	}, true
}

func det(ax, ay, bx, by float64) float64 {
	return ax*by - ay*bx
}
