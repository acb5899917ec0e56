package geom

import (
	"math"
	"testing"
)

func TestRotateAround(t *testing.T) {
	// Truncation pulls some coordinates one pixel toward zero when the
	// rounded sin or cos lands a hair past the exact value.
	cases := []struct {
		p, origin Coord
		radians   float64
		want      Coord
	}{
		{Coord{10, 10}, Coord{10, 20}, math.Pi, Coord{9, 30}},
		{Coord{10, 10}, Coord{10, 20}, math.Pi * 1.5, Coord{20, 20}},
		{Coord{10, 10}, Coord{10, 10}, math.Pi * 1.5, Coord{10, 10}},
		{Coord{10, 10}, Coord{10, 20}, math.Pi / 2, Coord{0, 19}},
	}
	for _, c := range cases {
		if got := RotateAround(c.p, c.radians, c.origin); got != c.want {
			t.Fatalf("RotateAround(%v, %v, %v) = %v, want %v", c.p, c.radians, c.origin, got, c.want)
		}
	}
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	points := []Coord{{0, 0}, {10, 10}, {-7, 13}, {480, 81}}
	origins := []Coord{{0, 0}, {10, 20}, {-3, -4}}
	for _, p := range points {
		for _, o := range origins {
			got := RotateAround(p, 2*math.Pi, o)
			if dx := got.X - p.X; dx < -1 || dx > 1 {
				t.Fatalf("RotateAround(%v, 2pi, %v).X = %d", p, o, got.X)
			}
			if dy := got.Y - p.Y; dy < -1 || dy > 1 {
				t.Fatalf("RotateAround(%v, 2pi, %v).Y = %d", p, o, got.Y)
			}
		}
	}
}

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		a, b Coord
		want float64
	}{
		{Coord{10, 10}, Coord{10, 20}, -math.Pi / 2},
		{Coord{10, 10}, Coord{20, 10}, 0},
		{Coord{10, 10}, Coord{0, 10}, -math.Pi},
		{Coord{10, 10}, Coord{10, 0}, math.Pi / 2},
		{Coord{0, 0}, Coord{30, 30}, -math.Pi / 4},
		{Coord{10, 10}, Coord{10, 10}, 0},
	}
	for _, c := range cases {
		if got := AngleBetween(c.a, c.b); math.Abs(got-c.want) > 1e-14 {
			t.Fatalf("AngleBetween(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestShortenLine(t *testing.T) {
	cases := []struct {
		a, b  Coord
		pix   int
		wantB Coord
	}{
		{Coord{10, 10}, Coord{10, 20}, 5, Coord{10, 15}},
		{Coord{10, 10}, Coord{10, 20}, 10, Coord{10, 10}},
		{Coord{10, 10}, Coord{10, 20}, 0, Coord{10, 20}},
		{Coord{10, 10}, Coord{10, 20}, 15, Coord{10, 5}},
		{Coord{10, 10}, Coord{30, 30}, 10, Coord{22, 22}},
		{Coord{40, 40}, Coord{20, 40}, 10, Coord{30, 40}},
		{Coord{5, 5}, Coord{5, 5}, 3, Coord{5, 5}},
	}
	for _, c := range cases {
		gotA, gotB := ShortenLine(c.a, c.b, c.pix)
		if gotA != c.a || gotB != c.wantB {
			t.Fatalf("ShortenLine(%v, %v, %d) = (%v, %v), want (%v, %v)",
				c.a, c.b, c.pix, gotA, gotB, c.a, c.wantB)
		}
	}
}

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(Coord{10, 10}, Coord{40, 10}, Coord{20, 0}, Coord{20, 20})
	if !ok || p.X != 20 || p.Y != 10 {
		t.Fatalf("crossing lines: got %v ok=%v", p, ok)
	}

	p, ok = LineIntersection(Coord{0, 10}, Coord{100, 10}, Coord{0, 20}, Coord{100, 0})
	if !ok || p.X != 50 || p.Y != 10 {
		t.Fatalf("diagonal crossing: got %v ok=%v", p, ok)
	}

	p, ok = LineIntersection(Coord{0, 40}, Coord{480, 40}, Coord{20, 80}, Coord{30, 40})
	if !ok || p.X != 30 || p.Y != 40 {
		t.Fatalf("axis crossing: got %v ok=%v", p, ok)
	}

	if _, ok := LineIntersection(Coord{0, 40}, Coord{480, 40}, Coord{0, 45}, Coord{480, 45}); ok {
		t.Fatalf("parallel lines reported an intersection")
	}
}
