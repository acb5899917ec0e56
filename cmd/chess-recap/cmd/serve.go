package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/chess-recap/internal/config"
	"github.com/park285/chess-recap/internal/obslog"
	"github.com/park285/chess-recap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP render service",
	Long: `Serve starts the render endpoint. POST a PGN body to /render with the
layer toggles as query parameters; finished animations are cached in
redis when REDIS_URL is set.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := obslog.InitFromEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var cache *server.Cache
	if cfg.RedisURL != "" {
		cache, err = server.NewCache(cfg.RedisURL, time.Duration(cfg.CacheTTLSec)*time.Second)
		if err != nil {
			return err
		}
		defer cache.Close()
	} else {
		obslog.L().Warn("REDIS_URL not set, render cache disabled")
	}

	obslog.L().Info("listening", zap.String("addr", cfg.ListenAddr))
	return server.New(cfg, cache).ListenAndServe()
}
