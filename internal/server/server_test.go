package server

import (
	"bytes"
	"context"
	"fmt"
	"image/gif"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/valyala/fasthttp"

	"github.com/park285/chess-recap/internal/config"
)

const testPGN = `[Event "Casual"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "Anna"]
[Black "Boris"]
[Result "*"]

1. e4 e5 2. Nf3 Nc6 *`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	cache, err := NewCache(fmt.Sprintf("redis://%s/0", mr.Addr()), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.BoardSize = 64
	return New(cfg, cache)
}

func doRequest(t *testing.T, s *Server, method, uri, body string) *fasthttp.RequestCtx {
	t.Helper()
	var ctx fasthttp.RequestCtx
	var req fasthttp.Request
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	if body != "" {
		req.SetBodyString(body)
	}
	ctx.Init(&req, nil, nil)
	s.Handler()(&ctx)
	return &ctx
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	ctx := doRequest(t, s, fasthttp.MethodGet, "http://test/healthz", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
}

func TestRenderRoutes(t *testing.T) {
	s := newTestServer(t)

	ctx := doRequest(t, s, fasthttp.MethodGet, "http://test/render", "")
	if ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Fatalf("GET /render status = %d", ctx.Response.StatusCode())
	}

	ctx = doRequest(t, s, fasthttp.MethodPost, "http://test/render", "")
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("empty body status = %d", ctx.Response.StatusCode())
	}

	ctx = doRequest(t, s, fasthttp.MethodGet, "http://test/nope", "")
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("unknown path status = %d", ctx.Response.StatusCode())
	}
}

func TestRenderAndCacheHit(t *testing.T) {
	s := newTestServer(t)

	ctx := doRequest(t, s, fasthttp.MethodPost, "http://test/render", testPGN)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	if ct := string(ctx.Response.Header.ContentType()); ct != "image/gif" {
		t.Fatalf("content type = %q", ct)
	}
	if len(ctx.Response.Header.Peek("X-Request-Id")) == 0 {
		t.Fatalf("missing request id header")
	}
	if _, err := gif.DecodeAll(bytes.NewReader(ctx.Response.Body())); err != nil {
		t.Fatalf("response is not a valid gif: %v", err)
	}

	ctx = doRequest(t, s, fasthttp.MethodPost, "http://test/render", testPGN)
	if got := string(ctx.Response.Header.Peek("X-Cache")); got != "hit" {
		t.Fatalf("X-Cache = %q, want hit", got)
	}
}

func TestRenderNeedsAnalysisForBar(t *testing.T) {
	s := newTestServer(t)
	ctx := doRequest(t, s, fasthttp.MethodPost, "http://test/render?bar=1", testPGN)
	if ctx.Response.StatusCode() != fasthttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", ctx.Response.StatusCode())
	}
}

func TestRenderBadPGN(t *testing.T) {
	s := newTestServer(t)
	ctx := doRequest(t, s, fasthttp.MethodPost, "http://test/render", "not a pgn at all }{")
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ctx.Response.StatusCode())
	}
}

func TestOptionsFromArgs(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	args := &fasthttp.Args{}
	args.Parse("size=320&theme=blue&pieces=maya&reverse=1&arrows=1&bar=1&graph=1&nags=1&headers=1&white=Anna&black=Boris&frame-ms=250")

	opts := optionsFromArgs(args, cfg)
	if opts.BoardSize != 320 || opts.Theme != "blue" || opts.Pieces != "maya" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if !opts.Reverse || !opts.Arrows || !opts.Bar || !opts.Graph || !opts.NAGs || !opts.Headers {
		t.Fatalf("layer toggles not parsed: %+v", opts)
	}
	if opts.White != "Anna" || opts.Black != "Boris" {
		t.Fatalf("names not parsed: %+v", opts)
	}
	if opts.Frame != 250*time.Millisecond {
		t.Fatalf("frame duration = %v", opts.Frame)
	}

	// Defaults survive when nothing is given.
	opts = optionsFromArgs(&fasthttp.Args{}, cfg)
	if opts.BoardSize != cfg.BoardSize || opts.MaxEval != cfg.MaxEval {
		t.Fatalf("defaults not applied: %+v", opts)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	cache, err := NewCache(fmt.Sprintf("redis://%s/0", mr.Addr()), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	ctx := context.Background()
	digest := Digest("pgn", "opts")

	if _, ok, err := cache.Get(ctx, digest); err != nil || ok {
		t.Fatalf("expected a miss, ok=%v err=%v", ok, err)
	}
	if err := cache.Put(ctx, digest, []byte("gif-bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	raw, ok, err := cache.Get(ctx, digest)
	if err != nil || !ok || string(raw) != "gif-bytes" {
		t.Fatalf("Get after Put: raw=%q ok=%v err=%v", raw, ok, err)
	}

	if Digest("pgn", "opts") != digest {
		t.Fatalf("digest is not deterministic")
	}
	if Digest("pgn", "other") == digest {
		t.Fatalf("different options must produce different digests")
	}

	// A nil cache degrades to a pass-through.
	var nilCache *Cache
	if err := nilCache.Put(ctx, digest, nil); err != nil {
		t.Fatalf("nil cache Put: %v", err)
	}
	if _, ok, err := nilCache.Get(ctx, digest); err != nil || ok {
		t.Fatalf("nil cache Get: ok=%v err=%v", ok, err)
	}
}
