// Package score models chess engine evaluations: centipawn values and
// forced-mate distances, with the saturation and point-of-view rules the
// renderers depend on.
package score

import (
	"fmt"
	"math"
)

type kind uint8

const (
	kindCp kind = iota
	kindMate
	kindMateGiven
)

// Score is a signed evaluation from a fixed point of view. It is either a
// centipawn value or a forced mate: Mate(n) with n > 0 means the POV side
// mates in n moves, n < 0 means it gets mated in n moves, and n == 0 means
// the POV side has already been checkmated. MateGiven is the opposite of
// Mate(0): the POV side has delivered mate.
type Score struct {
	kind kind
	v    int
}

// Cp returns a centipawn score.
func Cp(v int) Score { return Score{kind: kindCp, v: v} }

// Mate returns a forced-mate score with the given signed move distance.
func Mate(n int) Score { return Score{kind: kindMate, v: n} }

// MateGiven returns the score of a side that has just delivered checkmate.
func MateGiven() Score { return Score{kind: kindMateGiven} }

// IsMate reports whether the score represents a forced mate.
func (s Score) IsMate() bool { return s.kind != kindCp }

// MateDistance returns the absolute distance to mate. The boolean is false
// for centipawn scores.
func (s Score) MateDistance() (int, bool) {
	switch s.kind {
	case kindMate:
		if s.v < 0 {
			return -s.v, true
		}
		return s.v, true
	case kindMateGiven:
		return 0, true
	default:
		return 0, false
	}
}

// Centipawns returns the centipawn value. The boolean is false for mates.
func (s Score) Centipawns() (int, bool) {
	if s.kind != kindCp {
		return 0, false
	}
	return s.v, true
}

// Neg flips the point of view.
func (s Score) Neg() Score {
	switch s.kind {
	case kindMate:
		if s.v == 0 {
			return MateGiven()
		}
		return Mate(-s.v)
	case kindMateGiven:
		return Mate(0)
	default:
		return Cp(-s.v)
	}
}

// POV converts a white-relative score to the given perspective: it returns
// the score unchanged when white is true and negated otherwise.
func (s Score) POV(white bool) Score {
	if white {
		return s
	}
	return s.Neg()
}

// CP projects the score onto the centipawn scale, substituting
// mateScore (adjusted by the mate distance) for forced mates the way
// engine protocols conventionally do.
func (s Score) CP(mateScore int) int {
	switch s.kind {
	case kindMate:
		if s.v > 0 {
			return mateScore - s.v
		}
		return -mateScore - s.v
	case kindMateGiven:
		return mateScore
	default:
		return s.v
	}
}

// Norm maps the score into [-1, 1] against the configured maximum
// centipawn bound. Centipawn values clamp at the bound. A forced mate uses
// an effective bound of maxEval plus the mate distance and lands exactly on
// it, so mates saturate to +1 or -1 on both the bar and the graph.
func (s Score) Norm(maxEval int) float64 {
	switch s.kind {
	case kindMate:
		if s.v > 0 {
			return 1
		}
		return -1
	case kindMateGiven:
		return 1
	default:
		n := float64(s.v) / float64(maxEval)
		if n > 1 {
			return 1
		}
		if n < -1 {
			return -1
		}
		return n
	}
}

// Stockfish win-rate model coefficients (cubic in the game-phase term).
var (
	winRateA = [4]float64{-3.68389304, 30.07065921, -60.52878723, 149.53378557}
	winRateB = [4]float64{-2.0181857, 15.85685038, -29.83452023, 47.59078827}
)

func winRate(cp int, ply int) float64 {
	m := math.Min(240, float64(ply)) / 64
	a := ((winRateA[0]*m+winRateA[1])*m+winRateA[2])*m + winRateA[3]
	b := ((winRateB[0]*m+winRateB[1])*m+winRateB[2])*m + winRateB[3]
	x := math.Min(math.Max(float64(cp), -2000), 2000)
	return math.Floor(0.5 + 1000/(1+math.Exp((a-x)/b)))
}

// Expectation returns the POV side's expected game points in [0, 1] using
// the Stockfish win-rate model at the given ply. Forced mates pin to 0 or 1.
func (s Score) Expectation(ply int) float64 {
	switch s.kind {
	case kindMate:
		if s.v > 0 {
			return 1
		}
		return 0
	case kindMateGiven:
		return 1
	default:
		wins := winRate(s.v, ply)
		losses := winRate(-s.v, ply)
		return 0.5 + (wins-losses)/2000
	}
}

// String renders the score the way PGN eval annotations do: pawns with two
// decimals, or #n for mates.
func (s Score) String() string {
	switch s.kind {
	case kindMate:
		return fmt.Sprintf("#%d", s.v)
	case kindMateGiven:
		return "#0"
	default:
		return fmt.Sprintf("%.2f", float64(s.v)/100)
	}
}
