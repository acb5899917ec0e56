// Package animate turns a game timeline into the ordered frame sequence
// of the final animation. Layers are opt-in; the zero configuration
// renders a bare board.
package animate

import (
	"fmt"
	"image"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/chess-recap/internal/assets"
	"github.com/park285/chess-recap/internal/render"
	"github.com/park285/chess-recap/internal/timeline"
	"github.com/park285/chess-recap/pkg/score"
)

const (
	defaultBoardSize     = 480
	defaultBarWidth      = 30
	defaultGraphHeight   = 81
	defaultHeaderHeight  = 20
	defaultMaxEval       = 1000
	defaultFrameDuration = 500 * time.Millisecond
	graphLineWidth       = 1

	// The final position is repeated so the animation lingers on it
	// before looping.
	holdFrames = 20
)

// Win-probability drops (mover's point of view) that classify a move as
// an inaccuracy, a mistake or a blunder.
const (
	inaccuracyThreshold = -0.1
	mistakeThreshold    = -0.2
	blunderThreshold    = -0.3
)

// MissingAnalysisError reports a layer that needs per-ply evaluations
// enabled on a game that does not carry them.
type MissingAnalysisError struct {
	Feature string
}

func (e *MissingAnalysisError) Error() string {
	return fmt.Sprintf("game analysis is required for %s", e.Feature)
}

// Generator renders a timeline into frames. Configure it with the
// setters, then call Frames once.
type Generator struct {
	tl    *timeline.Timeline
	cache *assets.Cache

	boardSize    int
	barWidth     int
	graphHeight  int
	headerHeight int
	maxEval      int
	frameDelay   time.Duration

	theme      render.BoardTheme
	pieceTheme render.PieceTheme

	reverse bool
	arrows  bool
	nags    bool
	bar     bool
	graph   bool
	headers bool
}

// New builds a generator with the default board-only configuration.
func New(tl *timeline.Timeline) (*Generator, error) {
	if tl == nil || len(tl.Plies) < 2 {
		return nil, &render.InvalidConfigurationError{Field: "timeline", Reason: "need at least one move"}
	}
	return &Generator{
		tl:           tl,
		cache:        assets.NewCache(),
		boardSize:    defaultBoardSize,
		barWidth:     defaultBarWidth,
		graphHeight:  defaultGraphHeight,
		headerHeight: defaultHeaderHeight,
		maxEval:      defaultMaxEval,
		frameDelay:   defaultFrameDuration,
		theme:        render.BoardThemeBrown,
		pieceTheme:   render.PieceThemeAlpha,
	}, nil
}

// SetBoardSize sets the board edge in pixels, rounded down to a multiple
// of eight by the board renderer.
func (g *Generator) SetBoardSize(px int) error {
	if px < 8 {
		return &render.InvalidConfigurationError{Field: "board size", Reason: "must be at least 8 pixels"}
	}
	g.boardSize = px
	return nil
}

// SetSquareColors accepts a BoardTheme, a named theme resolved earlier,
// or a legacy two-entry hex color map.
func (g *Generator) SetSquareColors(v any) error {
	theme, err := render.ResolveSquareColors(v)
	if err != nil {
		return err
	}
	g.theme = theme
	return nil
}

// SetPieceTheme selects the piece art family.
func (g *Generator) SetPieceTheme(t render.PieceTheme) error {
	resolved, err := render.PieceThemeByName(string(t))
	if err != nil {
		return err
	}
	g.pieceTheme = resolved
	return nil
}

// SetFrameDuration sets the display time of every move frame.
func (g *Generator) SetFrameDuration(d time.Duration) error {
	if d <= 0 {
		return &render.InvalidConfigurationError{Field: "frame duration", Reason: "must be positive"}
	}
	g.frameDelay = d
	return nil
}

// SetMaxEval sets the centipawn value treated as a completely winning
// advantage by the bar and the graph.
func (g *Generator) SetMaxEval(cp int) error {
	if cp <= 0 {
		return &render.InvalidConfigurationError{Field: "max eval", Reason: "must be positive"}
	}
	g.maxEval = cp
	return nil
}

// ReverseBoard renders from black's point of view.
func (g *Generator) ReverseBoard() { g.reverse = true }

// EnableArrows draws move and check arrows on every frame.
func (g *Generator) EnableArrows() { g.arrows = true }

// AddHeaders attaches the player bars with names, captures and clocks.
func (g *Generator) AddHeaders(height int) error {
	if height <= 0 {
		height = defaultHeaderHeight
	}
	g.headers = true
	g.headerHeight = height
	return nil
}

// AddAnalysisBar attaches the vertical evaluation bar. The timeline must
// carry an evaluation on every ply.
func (g *Generator) AddAnalysisBar(width int) error {
	if !g.tl.HasAnalysis() {
		return &MissingAnalysisError{Feature: "the evaluation bar"}
	}
	if width <= 0 {
		width = defaultBarWidth
	}
	g.bar = true
	g.barWidth = width
	return nil
}

// AddAnalysisGraph attaches the evaluation graph strip.
func (g *Generator) AddAnalysisGraph(height int) error {
	if !g.tl.HasAnalysis() {
		return &MissingAnalysisError{Feature: "the evaluation graph"}
	}
	if height <= 0 {
		height = defaultGraphHeight
	}
	g.graph = true
	g.graphHeight = height
	return nil
}

// EnableNAGs overlays move-quality glyphs on moves that lose significant
// win probability.
func (g *Generator) EnableNAGs() error {
	if !g.tl.HasAnalysis() {
		return &MissingAnalysisError{Feature: "move quality glyphs"}
	}
	g.nags = true
	return nil
}

// FrameDuration returns the configured per-move display time.
func (g *Generator) FrameDuration() time.Duration { return g.frameDelay }

// Frames renders one frame per ply, plus hold copies of the final frame.
func (g *Generator) Frames() ([]*image.RGBA, error) {
	plies := g.tl.Plies

	board, err := render.NewBoard(g.boardSize, plies[0].Position.Board(), g.reverse, g.theme, g.pieceTheme, g.cache)
	if err != nil {
		return nil, err
	}

	barWidth, graphHeight, headerHeight := 0, 0, 0
	if g.bar {
		barWidth = g.barWidth
	}
	if g.graph {
		graphHeight = g.graphHeight
	}
	if g.headers {
		headerHeight = g.headerHeight
	}

	var graph *render.Graph
	var scores []score.Score
	if g.graph || g.nags {
		scores, err = g.tl.Scores()
		if err != nil {
			return nil, err
		}
	}
	if g.graph {
		graph, err = render.NewGraph(scores, board.Size()+barWidth, graphHeight, g.maxEval, graphLineWidth)
		if err != nil {
			return nil, err
		}
	}

	captures := make([]nchess.Piece, 0, len(plies))
	clocks := map[nchess.Color]*time.Duration{}

	frames := make([]*image.RGBA, 0, len(plies)+holdFrames)
	for i := range plies {
		ply := &plies[i]

		if i > 0 {
			if err := board.SetPosition(ply.Position.Board()); err != nil {
				return nil, err
			}
			if victim, ok := capturedPiece(&plies[i-1], ply); ok {
				captures = append(captures, victim)
			}
			if ply.Clock != nil {
				clocks[plies[i-1].Position.Turn()] = ply.Clock
			}
			if g.arrows {
				board.DrawArrow(ply.Move.S1(), ply.Move.S2(), render.ArrowBlue)
				g.drawCheckArrows(board, ply.Position)
			}
			if g.nags {
				mover := plies[i-1].Position.Turn()
				if nag, ok := classifyMove(scores, i, mover == nchess.White); ok {
					if err := board.DrawNAG(nag, ply.Move.S2()); err != nil {
						return nil, err
					}
				}
			}
		}

		canvas := render.NewCanvas(board.Size(), barWidth, graphHeight, headerHeight, g.reverse)
		canvas.AddBoard(board.Image())

		if g.bar {
			bar, err := render.NewEvalBar(barWidth, board.Size(), *ply.Score, g.maxEval, g.reverse)
			if err != nil {
				return nil, err
			}
			canvas.AddBar(bar.Image())
		}
		if g.graph {
			strip, err := graph.AtPly(i)
			if err != nil {
				return nil, err
			}
			canvas.AddGraph(strip)
		}
		if g.headers {
			w, _ := canvas.Size()
			hdr, err := render.NewHeaders(render.HeaderData{
				WhiteName:  g.tl.White,
				BlackName:  g.tl.Black,
				WhiteClock: clocks[nchess.White],
				BlackClock: clocks[nchess.Black],
				Captures:   captures,
			}, w, headerHeight, g.pieceTheme, g.cache)
			if err != nil {
				return nil, err
			}
			canvas.AddHeaders(hdr.Side(nchess.White), hdr.Side(nchess.Black))
		}

		frames = append(frames, canvas.Image())
	}

	final := frames[len(frames)-1]
	for i := 0; i < holdFrames; i++ {
		frames = append(frames, final)
	}
	return frames, nil
}

// capturedPiece returns the piece removed by the move leading from
// parent to cur, including the en passant victim.
func capturedPiece(parent, cur *timeline.Ply) (nchess.Piece, bool) {
	victim := parent.Position.Board().Piece(cur.Move.S2())
	if victim != nchess.NoPiece {
		return victim, true
	}
	if cur.Move.HasTag(nchess.EnPassant) {
		if cur.Position.Turn() == nchess.White {
			return nchess.WhitePawn, true
		}
		return nchess.BlackPawn, true
	}
	return nchess.NoPiece, false
}

func (g *Generator) drawCheckArrows(board *render.Board, pos *nchess.Position) {
	checkers := timeline.Checkers(pos)
	if len(checkers) == 0 {
		return
	}
	king, ok := timeline.KingSquare(pos.Board(), pos.Turn())
	if !ok {
		return
	}
	for _, sq := range checkers {
		board.DrawArrow(sq, king, render.ArrowRed)
	}
}

// classifyMove grades the move leading to ply i by the mover's change in
// expected score across the move.
func classifyMove(scores []score.Score, i int, moverIsWhite bool) (render.NAG, bool) {
	before := scores[i-1].POV(moverIsWhite).Expectation(i - 1)
	after := scores[i].POV(moverIsWhite).Expectation(i)
	delta := after - before

	switch {
	case delta < blunderThreshold:
		return render.NAGBlunder, true
	case delta < mistakeThreshold:
		return render.NAGMistake, true
	case delta < inaccuracyThreshold:
		return render.NAGInaccuracy, true
	}
	return "", false
}
