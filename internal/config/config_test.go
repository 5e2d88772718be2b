package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, DefaultPortalBaseURL, cfg.PortalBaseURL)
	assert.Equal(t, DefaultPortalImageBaseURL, cfg.PortalImageBaseURL)
	assert.Equal(t, DefaultWikiURL, cfg.WikiURL)
	assert.Equal(t, DefaultSpriteURLTemplate, cfg.SpriteURLTemplate)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Zero(t, cfg.UpstreamRPS)
	assert.Zero(t, cfg.RosterCacheTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Nil(t, cfg.RandomSeed)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("PORTAL_BASE_URL", "http://portal.local/api/")
	t.Setenv("PORTAL_IMAGE_BASE_URL", "http://portal.local/img/")
	t.Setenv("WIKI_URL", "http://wiki.local/list")
	t.Setenv("SPRITE_URL_TEMPLATE", "http://sprites.local/%s.gif")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("UPSTREAM_RPS", "2.5")
	t.Setenv("ROSTER_CACHE_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://portal.local/api", cfg.PortalBaseURL)
	assert.Equal(t, "http://portal.local/img", cfg.PortalImageBaseURL)
	assert.Equal(t, "http://wiki.local/list", cfg.WikiURL)
	assert.Equal(t, "http://sprites.local/%s.gif", cfg.SpriteURLTemplate)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.InDelta(t, 2.5, cfg.UpstreamRPS, 1e-9)
	assert.Equal(t, 5*time.Minute, cfg.RosterCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.NotNil(t, cfg.RandomSeed)
	assert.Equal(t, uint64(42), *cfg.RandomSeed)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad upstream timeout", "UPSTREAM_TIMEOUT", "soon"},
		{"zero upstream timeout", "UPSTREAM_TIMEOUT", "0s"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "later"},
		{"negative cache ttl", "ROSTER_CACHE_TTL", "-1m"},
		{"bad rps", "UPSTREAM_RPS", "fast"},
		{"negative rps", "UPSTREAM_RPS", "-1"},
		{"bad seed", "RANDOM_SEED", "abc"},
		{"template without placeholder", "SPRITE_URL_TEMPLATE", "http://sprites.local/pikachu.png"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
