// Package server exposes the renderer over HTTP: POST a PGN, get the
// animated GIF back. Finished animations are cached in redis.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/chess-recap/internal/animate"
	"github.com/park285/chess-recap/internal/config"
	"github.com/park285/chess-recap/internal/encode"
	"github.com/park285/chess-recap/internal/obslog"
	"github.com/park285/chess-recap/internal/render"
	"github.com/park285/chess-recap/internal/timeline"
)

type Server struct {
	cfg   *config.AppConfig
	cache *Cache
}

func New(cfg *config.AppConfig, cache *Cache) *Server {
	return &Server{cfg: cfg, cache: cache}
}

// Handler returns the fasthttp request handler with all routes wired.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/healthz":
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.SetBodyString("ok")
		case "/render":
			if !ctx.IsPost() {
				ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
				return
			}
			s.handleRender(ctx)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}
}

// ListenAndServe blocks serving requests on the configured address.
func (s *Server) ListenAndServe() error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "chess-recap",
		MaxRequestBodySize: 1 << 20,
	}
	return srv.ListenAndServe(s.cfg.ListenAddr)
}

func (s *Server) handleRender(ctx *fasthttp.RequestCtx) {
	reqID := uuid.NewString()
	ctx.Response.Header.Set("X-Request-Id", reqID)
	log := obslog.L().With(zap.String("req", reqID))

	pgn := strings.TrimSpace(string(ctx.PostBody()))
	if pgn == "" {
		ctx.Error("empty request body, expected PGN", fasthttp.StatusBadRequest)
		return
	}

	opts := optionsFromArgs(ctx.QueryArgs(), s.cfg)
	digest := Digest(pgn, opts.fingerprint())

	if gif, ok, err := s.cache.Get(ctx, digest); err != nil {
		log.Warn("cache lookup failed", zap.Error(err))
	} else if ok {
		ctx.Response.Header.Set("X-Cache", "hit")
		ctx.SetContentType("image/gif")
		ctx.SetBody(gif)
		return
	}

	gif, err := RenderGIF(pgn, opts)
	if err != nil {
		status := fasthttp.StatusUnprocessableEntity
		var parseErr *pgnParseError
		if errors.As(err, &parseErr) {
			status = fasthttp.StatusBadRequest
		}
		log.Warn("render failed", zap.Error(err))
		ctx.Error(err.Error(), status)
		return
	}

	if err := s.cache.Put(ctx, digest, gif); err != nil {
		log.Warn("cache store failed", zap.Error(err))
	}
	log.Info("rendered game",
		zap.Int("bytes", len(gif)),
		zap.String("digest", digest[:12]),
	)
	ctx.SetContentType("image/gif")
	ctx.SetBody(gif)
}

type pgnParseError struct{ err error }

func (e *pgnParseError) Error() string { return "parse pgn: " + e.err.Error() }
func (e *pgnParseError) Unwrap() error { return e.err }

// RenderGIF runs the full pipeline: parse the PGN, build the timeline,
// render the frames and encode the animation.
func RenderGIF(pgn string, opts Options) ([]byte, error) {
	pgnOpt, err := nchess.PGN(bytes.NewReader([]byte(pgn)))
	if err != nil {
		return nil, &pgnParseError{err: err}
	}
	game := nchess.NewGame(pgnOpt)

	tl, err := timeline.FromGame(game)
	if err != nil {
		return nil, &pgnParseError{err: err}
	}
	if opts.White != "" {
		tl.White = opts.White
	}
	if opts.Black != "" {
		tl.Black = opts.Black
	}

	gen, err := buildGenerator(tl, opts)
	if err != nil {
		return nil, err
	}
	frames, err := gen.Frames()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encode.GIF(&buf, frames, gen.FrameDuration()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildGenerator(tl *timeline.Timeline, opts Options) (*animate.Generator, error) {
	gen, err := animate.New(tl)
	if err != nil {
		return nil, err
	}
	if err := gen.SetBoardSize(opts.BoardSize); err != nil {
		return nil, err
	}
	theme, err := render.ParseThemeSpec(opts.Theme)
	if err != nil {
		return nil, err
	}
	if err := gen.SetSquareColors(theme); err != nil {
		return nil, err
	}
	if err := gen.SetPieceTheme(render.PieceTheme(opts.Pieces)); err != nil {
		return nil, err
	}
	if err := gen.SetMaxEval(opts.MaxEval); err != nil {
		return nil, err
	}
	if err := gen.SetFrameDuration(opts.Frame); err != nil {
		return nil, err
	}
	if opts.Reverse {
		gen.ReverseBoard()
	}
	if opts.Arrows {
		gen.EnableArrows()
	}
	if opts.Bar {
		if err := gen.AddAnalysisBar(opts.BarWidth); err != nil {
			return nil, err
		}
	}
	if opts.Graph {
		if err := gen.AddAnalysisGraph(opts.GraphHeight); err != nil {
			return nil, err
		}
	}
	if opts.NAGs {
		if err := gen.EnableNAGs(); err != nil {
			return nil, err
		}
	}
	if opts.Headers {
		if err := gen.AddHeaders(opts.HeaderHeight); err != nil {
			return nil, err
		}
	}
	return gen, nil
}

// Options selects the layers and dimensions of one rendered animation.
type Options struct {
	BoardSize    int
	BarWidth     int
	GraphHeight  int
	HeaderHeight int
	Theme        string
	Pieces       string
	MaxEval      int
	Frame        time.Duration
	White        string
	Black        string

	Reverse bool
	Arrows  bool
	NAGs    bool
	Bar     bool
	Graph   bool
	Headers bool
}

// DefaultOptions seeds the options from the configured defaults.
func DefaultOptions(cfg *config.AppConfig) Options {
	return Options{
		BoardSize:    cfg.BoardSize,
		BarWidth:     cfg.BarWidth,
		GraphHeight:  cfg.GraphHeight,
		HeaderHeight: cfg.HeaderHeight,
		Theme:        cfg.BoardTheme,
		Pieces:       cfg.PieceTheme,
		MaxEval:      cfg.MaxEval,
		Frame:        time.Duration(cfg.FrameMS) * time.Millisecond,
	}
}

func optionsFromArgs(args *fasthttp.Args, cfg *config.AppConfig) Options {
	opts := DefaultOptions(cfg)
	if v := args.GetUintOrZero("size"); v > 0 {
		opts.BoardSize = v
	}
	if v := string(args.Peek("theme")); v != "" {
		opts.Theme = v
	}
	if v := string(args.Peek("pieces")); v != "" {
		opts.Pieces = v
	}
	if v := args.GetUintOrZero("max-eval"); v > 0 {
		opts.MaxEval = v
	}
	if v := args.GetUintOrZero("frame-ms"); v > 0 {
		opts.Frame = time.Duration(v) * time.Millisecond
	}
	opts.White = string(args.Peek("white"))
	opts.Black = string(args.Peek("black"))
	opts.Reverse = args.GetBool("reverse")
	opts.Arrows = args.GetBool("arrows")
	opts.NAGs = args.GetBool("nags")
	opts.Bar = args.GetBool("bar")
	opts.Graph = args.GetBool("graph")
	opts.Headers = args.GetBool("headers")
	return opts
}

// fingerprint serializes every option that affects the output raster.
func (o Options) fingerprint() string {
	return fmt.Sprintf("%d|%d|%d|%d|%s|%s|%d|%d|%s|%s|%t|%t|%t|%t|%t|%t",
		o.BoardSize, o.BarWidth, o.GraphHeight, o.HeaderHeight,
		o.Theme, o.Pieces, o.MaxEval, o.Frame.Milliseconds(),
		o.White, o.Black,
		o.Reverse, o.Arrows, o.NAGs, o.Bar, o.Graph, o.Headers,
	)
}
