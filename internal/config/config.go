package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPortalBaseURL      = "https://tw.portal-pokemon.com/play/pokedex/api/v1"
	DefaultPortalImageBaseURL = "https://tw.portal-pokemon.com/play/resources/pokedex"
	DefaultWikiURL            = "https://wiki.52poke.com/zh-hant/%E5%AE%9D%E5%8F%AF%E6%A2%A6%E5%88%97%E8%A1%A8%EF%BC%88%E5%9C%A8%E5%85%B6%E4%BB%96%E8%AF%AD%E8%A8%80%E4%B8%AD%EF%BC%89"
	DefaultSpriteURLTemplate  = "https://play.pokemonshowdown.com/sprites/gen5/%s.png"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	PortalBaseURL      string
	PortalImageBaseURL string
	WikiURL            string
	SpriteURLTemplate  string

	UpstreamTimeout time.Duration
	// UpstreamRPS limits outgoing requests per upstream. Zero means unlimited.
	UpstreamRPS float64
	// RosterCacheTTL enables the roster cache when positive.
	RosterCacheTTL time.Duration

	CORSAllowedOrigins []string
	// RandomSeed makes the highlighted pick reproducible when set.
	RandomSeed *uint64

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	if upstreamTimeout <= 0 {
		return nil, errors.New("UPSTREAM_TIMEOUT must be positive")
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	rosterCacheTTL, err := parseDuration("ROSTER_CACHE_TTL", "0s")
	if err != nil {
		return nil, err
	}
	if rosterCacheTTL < 0 {
		return nil, errors.New("ROSTER_CACHE_TTL must not be negative")
	}

	rps := 0.0
	if s := os.Getenv("UPSTREAM_RPS"); s != "" {
		rps, err = strconv.ParseFloat(s, 64)
		if err != nil || rps < 0 {
			return nil, fmt.Errorf("invalid UPSTREAM_RPS %q", s)
		}
	}

	var seed *uint64
	if s := os.Getenv("RANDOM_SEED"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RANDOM_SEED %q", s)
		}
		seed = &v
	}

	cfg := &Config{
		Port:               envOrDefault("PORT", "8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "console"),
		PortalBaseURL:      strings.TrimRight(envOrDefault("PORTAL_BASE_URL", DefaultPortalBaseURL), "/"),
		PortalImageBaseURL: strings.TrimRight(envOrDefault("PORTAL_IMAGE_BASE_URL", DefaultPortalImageBaseURL), "/"),
		WikiURL:            envOrDefault("WIKI_URL", DefaultWikiURL),
		SpriteURLTemplate:  envOrDefault("SPRITE_URL_TEMPLATE", DefaultSpriteURLTemplate),
		UpstreamTimeout:    upstreamTimeout,
		UpstreamRPS:        rps,
		RosterCacheTTL:     rosterCacheTTL,
		CORSAllowedOrigins: parseList(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RandomSeed:         seed,
		ShutdownTimeout:    shutdownTimeout,
	}

	if strings.Count(cfg.SpriteURLTemplate, "%s") != 1 {
		return nil, errors.New("SPRITE_URL_TEMPLATE must contain exactly one %s")
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
