package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig carries the rendering defaults and the server settings.
// Values load in three layers: built-in defaults, an optional YAML file
// pointed at by RECAP_CONFIG, then environment variables on top.
type AppConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	RedisURL    string `yaml:"redis_url"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`

	BoardSize    int    `yaml:"board_size"`
	BarWidth     int    `yaml:"bar_width"`
	GraphHeight  int    `yaml:"graph_height"`
	HeaderHeight int    `yaml:"header_height"`
	BoardTheme   string `yaml:"board_theme"`
	PieceTheme   string `yaml:"piece_theme"`
	MaxEval      int    `yaml:"max_eval"`
	FrameMS      int    `yaml:"frame_ms"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ListenAddr:   ":8320",
		CacheTTLSec:  3600,
		BoardSize:    480,
		BarWidth:     30,
		GraphHeight:  81,
		HeaderHeight: 20,
		BoardTheme:   "brown",
		PieceTheme:   "alpha",
		MaxEval:      1000,
		FrameMS:      500,
	}
}

func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("RECAP_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("RECAP_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	overrideInt(&cfg.CacheTTLSec, "RECAP_CACHE_TTL")
	overrideInt(&cfg.BoardSize, "RECAP_BOARD_SIZE")
	overrideInt(&cfg.BarWidth, "RECAP_BAR_WIDTH")
	overrideInt(&cfg.GraphHeight, "RECAP_GRAPH_HEIGHT")
	overrideInt(&cfg.HeaderHeight, "RECAP_HEADER_HEIGHT")
	overrideInt(&cfg.MaxEval, "RECAP_MAX_EVAL")
	overrideInt(&cfg.FrameMS, "RECAP_FRAME_MS")
	if v := strings.TrimSpace(os.Getenv("RECAP_BOARD_THEME")); v != "" {
		cfg.BoardTheme = v
	}
	if v := strings.TrimSpace(os.Getenv("RECAP_PIECE_THEME")); v != "" {
		cfg.PieceTheme = v
	}

	if cfg.BoardSize < 8 {
		return nil, fmt.Errorf("board size %d is too small", cfg.BoardSize)
	}
	if cfg.FrameMS <= 0 {
		return nil, fmt.Errorf("frame duration must be positive, got %dms", cfg.FrameMS)
	}
	if cfg.MaxEval <= 0 {
		return nil, fmt.Errorf("max eval must be positive, got %d", cfg.MaxEval)
	}

	return cfg, nil
}

func overrideInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
