package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/park285/chess-recap/internal/config"
	"github.com/park285/chess-recap/internal/server"
)

var renderFlags struct {
	output  string
	size    int
	theme   string
	pieces  string
	maxEval int
	frameMS int
	white   string
	black   string
	reverse bool
	arrows  bool
	nags    bool
	bar     bool
	graph   bool
	headers bool
	all     bool
}

var renderCmd = &cobra.Command{
	Use:   "render <game.pgn>",
	Short: "Render one PGN file to an animated GIF",
	Long: `Render reads a PGN file (or stdin when the argument is "-") and writes
the animated GIF. Layers that need engine evaluations (--bar, --graph,
--nags) require [%eval] annotations on every move.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.output, "output", "o", "game.gif", "output file path")
	f.IntVar(&renderFlags.size, "size", 0, "board size in pixels")
	f.StringVar(&renderFlags.theme, "theme", "", "board color theme name or white,black hex pair")
	f.StringVar(&renderFlags.pieces, "pieces", "", "piece art family")
	f.IntVar(&renderFlags.maxEval, "max-eval", 0, "centipawns treated as completely winning")
	f.IntVar(&renderFlags.frameMS, "frame-ms", 0, "per-move frame duration in milliseconds")
	f.StringVar(&renderFlags.white, "white", "", "white player name for the headers")
	f.StringVar(&renderFlags.black, "black", "", "black player name for the headers")
	f.BoolVar(&renderFlags.reverse, "reverse", false, "render from black's point of view")
	f.BoolVar(&renderFlags.arrows, "arrows", false, "draw move and check arrows")
	f.BoolVar(&renderFlags.nags, "nags", false, "overlay move quality glyphs")
	f.BoolVar(&renderFlags.bar, "bar", false, "attach the evaluation bar")
	f.BoolVar(&renderFlags.graph, "graph", false, "attach the evaluation graph")
	f.BoolVar(&renderFlags.headers, "headers", false, "attach the player header bars")
	f.BoolVar(&renderFlags.all, "all", false, "enable every layer")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var pgn []byte
	if args[0] == "-" {
		pgn, err = io.ReadAll(os.Stdin)
	} else {
		pgn, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read pgn: %w", err)
	}

	opts := server.DefaultOptions(cfg)
	if renderFlags.size > 0 {
		opts.BoardSize = renderFlags.size
	}
	if renderFlags.theme != "" {
		opts.Theme = renderFlags.theme
	}
	if renderFlags.pieces != "" {
		opts.Pieces = renderFlags.pieces
	}
	if renderFlags.maxEval > 0 {
		opts.MaxEval = renderFlags.maxEval
	}
	if renderFlags.frameMS > 0 {
		opts.Frame = time.Duration(renderFlags.frameMS) * time.Millisecond
	}
	opts.White = renderFlags.white
	opts.Black = renderFlags.black
	opts.Reverse = renderFlags.reverse
	opts.Arrows = renderFlags.arrows || renderFlags.all
	opts.NAGs = renderFlags.nags || renderFlags.all
	opts.Bar = renderFlags.bar || renderFlags.all
	opts.Graph = renderFlags.graph || renderFlags.all
	opts.Headers = renderFlags.headers || renderFlags.all

	gif, err := server.RenderGIF(string(pgn), opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderFlags.output, gif, 0o644); err != nil {
		return fmt.Errorf("write gif: %w", err)
	}
	cmd.Printf("wrote %s (%d bytes)\n", renderFlags.output, len(gif))
	return nil
}
