// Package timeline materializes a game into an indexed, random-access
// ply sequence. The renderers only ever walk this flat sequence; the
// game-tree shape of the PGN library never leaks past this boundary.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/chess-recap/pkg/score"
)

// Ply is one half-move snapshot. Index 0 is the starting position and
// has no move. Score is white-relative and nil when the PGN carried no
// evaluation for the ply; Clock is the mover's remaining time after the
// move, when annotated.
type Ply struct {
	Index    int
	Position *nchess.Position
	Move     *nchess.Move
	Score    *score.Score
	Clock    *time.Duration
}

// Timeline is the ordered ply sequence of one game.
type Timeline struct {
	White string
	Black string
	Plies []Ply
}

var (
	evalPattern  = regexp.MustCompile(`\[%eval\s+([#0-9.+-]+)\]`)
	clkPattern   = regexp.MustCompile(`\[%clk\s+([0-9:.]+)\]`)
	clockPattern = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2}(?:\.\d+)?)$`)

	// ErrNoMoves is returned for games without a single move.
	ErrNoMoves = errors.New("game does not have any moves")
)

// FromGame flattens the game into plies and extracts [%eval] and [%clk]
// annotations. The PGN parser lifts those into per-move commands, which
// is the primary source; raw comment text is kept as a fallback for
// games built move by move. A terminal checkmate without an evaluation
// still gets a mate score, since the result is forced.
func FromGame(game *nchess.Game) (*Timeline, error) {
	if game == nil {
		return nil, errors.New("game is nil")
	}
	positions := game.Positions()
	moves := game.Moves()
	if len(moves) == 0 || len(positions) != len(moves)+1 {
		return nil, ErrNoMoves
	}
	comments := game.Comments()

	tl := &Timeline{
		White: "White",
		Black: "Black",
		Plies: make([]Ply, len(positions)),
	}
	if name := game.GetTagPair("White"); name != "" {
		tl.White = name
	}
	if name := game.GetTagPair("Black"); name != "" {
		tl.Black = name
	}
	for i, pos := range positions {
		ply := Ply{Index: i, Position: pos}
		if i == 0 {
			// The starting position never carries an annotation; it is
			// level by definition.
			zero := score.Cp(0)
			ply.Score = &zero
		} else {
			mv := moves[i-1]
			ply.Move = mv
			if raw, ok := mv.GetCommand("eval"); ok {
				if sc, err := parseEval(raw); err == nil {
					ply.Score = &sc
				}
			}
			if raw, ok := mv.GetCommand("clk"); ok {
				if d, ok := parseClock(raw); ok {
					ply.Clock = &d
				}
			}
			if i-1 < len(comments) {
				for _, comment := range comments[i-1] {
					annotate(&ply, comment)
				}
			}
		}
		if ply.Score == nil {
			if sc, ok := checkmateScore(pos); ok {
				ply.Score = &sc
			}
		}
		tl.Plies[i] = ply
	}
	return tl, nil
}

// HasAnalysis reports whether every ply carries an evaluation.
func (t *Timeline) HasAnalysis() bool {
	for i := range t.Plies {
		if t.Plies[i].Score == nil {
			return false
		}
	}
	return true
}

// Scores returns the white-relative score of every ply. It must only be
// called after HasAnalysis has been verified.
func (t *Timeline) Scores() ([]score.Score, error) {
	scores := make([]score.Score, len(t.Plies))
	for i := range t.Plies {
		if t.Plies[i].Score == nil {
			return nil, fmt.Errorf("ply %d has no evaluation", i)
		}
		scores[i] = *t.Plies[i].Score
	}
	return scores, nil
}

// FinalPly returns the index of the last ply.
func (t *Timeline) FinalPly() int { return len(t.Plies) - 1 }

func annotate(ply *Ply, comment string) {
	if ply.Score == nil {
		if m := evalPattern.FindStringSubmatch(comment); m != nil {
			if sc, err := parseEval(m[1]); err == nil {
				ply.Score = &sc
			}
		}
	}
	if ply.Clock == nil {
		if m := clkPattern.FindStringSubmatch(comment); m != nil {
			if d, ok := parseClock(m[1]); ok {
				ply.Clock = &d
			}
		}
	}
}

// parseClock parses an H:MM:SS value, with optional fractional seconds.
func parseClock(raw string) (time.Duration, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.ParseFloat(m[3], 64)
	return time.Duration((float64(hours*3600+minutes*60) + seconds) * float64(time.Second)), true
}

// parseEval parses a white-relative [%eval] value: pawns with decimals,
// or #n / #-n for forced mates.
func parseEval(raw string) (score.Score, error) {
	if strings.HasPrefix(raw, "#") {
		n, err := strconv.Atoi(raw[1:])
		if err != nil {
			return score.Score{}, fmt.Errorf("bad mate annotation %q: %w", raw, err)
		}
		return score.Mate(n), nil
	}
	pawns, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return score.Score{}, fmt.Errorf("bad eval annotation %q: %w", raw, err)
	}
	return score.Cp(int(math.Round(pawns * 100))), nil
}

// checkmateScore returns the white-relative score of a checkmated
// position: the side to move has been mated.
func checkmateScore(pos *nchess.Position) (score.Score, bool) {
	if pos.Status() != nchess.Checkmate {
		return score.Score{}, false
	}
	if pos.Turn() == nchess.White {
		return score.Mate(0), true
	}
	return score.MateGiven(), true
}

// KingSquare locates the king of the given color.
func KingSquare(board *nchess.Board, c nchess.Color) (nchess.Square, bool) {
	for sq, piece := range board.SquareMap() {
		if piece.Type() == nchess.King && piece.Color() == c {
			return sq, true
		}
	}
	return 0, false
}

// Checkers lists the squares of the pieces giving check to the side to
// move, in ascending square order. The test is purely geometric over the
// occupancy map.
func Checkers(pos *nchess.Position) []nchess.Square {
	board := pos.Board()
	king, ok := KingSquare(board, pos.Turn())
	if !ok {
		return nil
	}
	occupied := board.SquareMap()

	var checkers []nchess.Square
	for sq, piece := range occupied {
		if piece.Color() == pos.Turn() {
			continue
		}
		if attacks(sq, king, piece, occupied) {
			checkers = append(checkers, sq)
		}
	}
	sort.Slice(checkers, func(i, j int) bool { return checkers[i] < checkers[j] })
	return checkers
}

func attacks(from, to nchess.Square, piece nchess.Piece, occupied map[nchess.Square]nchess.Piece) bool {
	df := int(to.File()) - int(from.File())
	dr := int(to.Rank()) - int(from.Rank())
	adf, adr := absInt(df), absInt(dr)
	if adf == 0 && adr == 0 {
		return false
	}

	switch piece.Type() {
	case nchess.Pawn:
		dir := 1
		if piece.Color() == nchess.Black {
			dir = -1
		}
		return adf == 1 && dr == dir
	case nchess.Knight:
		return (adf == 1 && adr == 2) || (adf == 2 && adr == 1)
	case nchess.King:
		return adf <= 1 && adr <= 1
	case nchess.Bishop:
		return adf == adr && rayClear(from, to, occupied)
	case nchess.Rook:
		return (df == 0 || dr == 0) && rayClear(from, to, occupied)
	case nchess.Queen:
		return (adf == adr || df == 0 || dr == 0) && rayClear(from, to, occupied)
	}
	return false
}

// rayClear reports whether the squares strictly between from and to are
// empty. from and to must share a rank, file or diagonal.
func rayClear(from, to nchess.Square, occupied map[nchess.Square]nchess.Piece) bool {
	stepF := sign(int(to.File()) - int(from.File()))
	stepR := sign(int(to.Rank()) - int(from.Rank()))

	f := int(from.File()) + stepF
	r := int(from.Rank()) + stepR
	for f != int(to.File()) || r != int(to.Rank()) {
		sq := nchess.NewSquare(nchess.File(f), nchess.Rank(r))
		if piece, ok := occupied[sq]; ok && piece != nchess.NoPiece {
			return false
		}
		f += stepF
		r += stepR
	}
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
