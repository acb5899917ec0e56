package timeline

import (
	"bytes"
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/chess-recap/pkg/score"
)

func gameFromPGN(t *testing.T, pgn string) *nchess.Game {
	t.Helper()
	opt, err := nchess.PGN(bytes.NewReader([]byte(pgn)))
	if err != nil {
		t.Fatalf("parse pgn: %v", err)
	}
	return nchess.NewGame(opt)
}

// headeredPGN wraps movetext in the tag-pair section the parser expects.
func headeredPGN(result, movetext string) string {
	return `[Event "Casual"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "Anna"]
[Black "Boris"]
[Result "` + result + `"]

` + movetext
}

var annotatedPGN = headeredPGN("*", `1. e4 { [%eval 0.3] [%clk 0:05:00] } e5 { [%eval 0.25] [%clk 0:04:58] } 2. Nf3 { [%eval 0.2] [%clk 0:04:55] } *`)

func TestFromGameAnnotations(t *testing.T) {
	tl, err := FromGame(gameFromPGN(t, annotatedPGN))
	if err != nil {
		t.Fatalf("FromGame: %v", err)
	}
	if len(tl.Plies) != 4 {
		t.Fatalf("len(plies) = %d, want 4", len(tl.Plies))
	}
	if tl.White != "Anna" || tl.Black != "Boris" {
		t.Fatalf("player names not read from the tag pairs: %q / %q", tl.White, tl.Black)
	}
	if tl.Plies[0].Move != nil {
		t.Fatalf("starting ply should carry no move")
	}
	if tl.Plies[0].Score == nil || *tl.Plies[0].Score != score.Cp(0) {
		t.Fatalf("starting ply should be seeded level, got %v", tl.Plies[0].Score)
	}

	sc := tl.Plies[1].Score
	if sc == nil {
		t.Fatalf("ply 1 has no score")
	}
	if cp, ok := sc.Centipawns(); !ok || cp != 30 {
		t.Fatalf("ply 1 score = %v", *sc)
	}

	clk := tl.Plies[2].Clock
	if clk == nil || *clk != 4*time.Minute+58*time.Second {
		t.Fatalf("ply 2 clock = %v", clk)
	}

	if !tl.HasAnalysis() {
		t.Fatalf("every move carries an eval, HasAnalysis should be true")
	}
}

func TestFromGameErrors(t *testing.T) {
	if _, err := FromGame(nil); err == nil {
		t.Fatalf("expected error for nil game")
	}
	if _, err := FromGame(nchess.NewGame()); err != ErrNoMoves {
		t.Fatalf("expected ErrNoMoves for an empty game")
	}
}

func TestCheckmateFallbackScore(t *testing.T) {
	tl, err := FromGame(gameFromPGN(t, headeredPGN("0-1", `1. f3 e5 2. g4 Qh4# 0-1`)))
	if err != nil {
		t.Fatalf("FromGame: %v", err)
	}

	final := tl.Plies[tl.FinalPly()].Score
	if final == nil {
		t.Fatalf("mated final position should get a score")
	}
	if *final != score.Mate(0) {
		t.Fatalf("final score = %v, want mate against white", *final)
	}
	if tl.HasAnalysis() {
		t.Fatalf("one synthesized mate score is not full analysis")
	}
}

func TestScores(t *testing.T) {
	partial, err := FromGame(gameFromPGN(t, headeredPGN("*", `1. e4 { [%eval 0.3] } e5 *`)))
	if err != nil {
		t.Fatalf("FromGame: %v", err)
	}
	if partial.HasAnalysis() {
		t.Fatalf("a move without an eval is not full analysis")
	}
	if _, err := partial.Scores(); err == nil {
		t.Fatalf("Scores should fail when a ply lacks an eval")
	}

	tl, err := FromGame(gameFromPGN(t, annotatedPGN))
	if err != nil {
		t.Fatalf("FromGame: %v", err)
	}
	scores, err := tl.Scores()
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if len(scores) != len(tl.Plies) {
		t.Fatalf("len(scores) = %d", len(scores))
	}
}

func TestParseEval(t *testing.T) {
	cases := []struct {
		raw  string
		want score.Score
	}{
		{"0.33", score.Cp(33)},
		{"-1.2", score.Cp(-120)},
		{"#3", score.Mate(3)},
		{"#-2", score.Mate(-2)},
	}
	for _, c := range cases {
		got, err := parseEval(c.raw)
		if err != nil {
			t.Fatalf("parseEval(%q): %v", c.raw, err)
		}
		if got != c.want {
			t.Fatalf("parseEval(%q) = %v, want %v", c.raw, got, c.want)
		}
	}

	if _, err := parseEval("#x"); err == nil {
		t.Fatalf("expected error for a bad mate annotation")
	}
}

func TestCheckersAndKingSquare(t *testing.T) {
	game := gameFromPGN(t, headeredPGN("0-1", `1. f3 e5 2. g4 Qh4# 0-1`))
	pos := game.Position()

	king, ok := KingSquare(pos.Board(), nchess.White)
	if !ok || king != nchess.E1 {
		t.Fatalf("white king = %v ok=%v", king, ok)
	}

	checkers := Checkers(pos)
	if len(checkers) != 1 || checkers[0] != nchess.H4 {
		t.Fatalf("checkers = %v, want [h4]", checkers)
	}
}

func TestCheckersNoCheck(t *testing.T) {
	game := gameFromPGN(t, headeredPGN("*", `1. e4 e5 *`))
	if checkers := Checkers(game.Position()); len(checkers) != 0 {
		t.Fatalf("checkers = %v, want none", checkers)
	}
}

func TestCheckersSliderBlocked(t *testing.T) {
	// Developed pieces point at the black king's area but nothing
	// attacks e8 through the pawn shield.
	game := gameFromPGN(t, headeredPGN("*", `1. e4 e5 2. Nf3 Nc6 *`))
	if checkers := Checkers(game.Position()); len(checkers) != 0 {
		t.Fatalf("checkers = %v, want none", checkers)
	}
}
