package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/metrics"
	"github.com/codyseavey/poke-finder/backend/internal/models"
)

const (
	portalBaseURL      = "https://tw.portal-pokemon.com/play/pokedex/api/v1"
	portalImageBaseURL = "https://tw.portal-pokemon.com/play/resources/pokedex"
	rosterCacheKey     = "roster"
)

// PortalOptions configures a PortalService. Zero values fall back to the
// public portal endpoints and no caching.
type PortalOptions struct {
	BaseURL        string
	ImageBaseURL   string
	Timeout        time.Duration
	RPS            float64
	RosterCacheTTL time.Duration
	HTTPClient     *http.Client
}

// PortalService talks to the portal pokedex API. The API only supports keyword
// search, so every lookup is fuzzy and the first candidate wins.
type PortalService struct {
	http         *upstream
	baseURL      string
	imageBaseURL string
	rosterCache  *expirable.LRU[string, []models.RawPokemon]
	logger       *zap.SugaredLogger
}

func NewPortalService(opts PortalOptions, logger *zap.SugaredLogger) *PortalService {
	if opts.BaseURL == "" {
		opts.BaseURL = portalBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = portalImageBaseURL
	}

	s := &PortalService{
		http:         newUpstream("portal", opts.HTTPClient, opts.Timeout, opts.RPS),
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		logger:       logger,
	}
	if opts.RosterCacheTTL > 0 {
		s.rosterCache = expirable.NewLRU[string, []models.RawPokemon](1, nil, opts.RosterCacheTTL)
	}
	return s
}

func (s *PortalService) fetch(ctx context.Context, params url.Values) ([]models.RawPokemon, error) {
	reqURL := s.baseURL + "?" + params.Encode()
	body, err := s.http.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp models.PortalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode portal response: %w", ErrUpstreamUnavailable, err)
	}
	return resp.Pokemons, nil
}

func (s *PortalService) search(ctx context.Context, keyword string) ([]models.RawPokemon, error) {
	params := url.Values{}
	params.Set("key_word", keyword)
	return s.fetch(ctx, params)
}

// LookupByName resolves a query to the localized name and type of the first
// search candidate. An empty search is not an error: the query is echoed back
// with a nil type and Matched set to false.
func (s *PortalService) LookupByName(ctx context.Context, query string) (models.NameLookup, error) {
	s.logger.Debugf("Looking up pokemon name %q", query)

	results, err := s.search(ctx, query)
	if err != nil {
		return models.NameLookup{}, fmt.Errorf("failed to search portal for %q: %w", query, err)
	}

	if len(results) == 0 {
		s.logger.Infof("Could not find localized name for %q", query)
		return models.NameLookup{LocalizedName: query}, nil
	}

	first := results[0]
	name := first.Name
	if name == "" {
		name = query
	}
	return models.NameLookup{
		LocalizedName: name,
		Type:          first.TypePtr(),
		Matched:       true,
	}, nil
}

// FetchRoster returns the unfiltered pokedex. Results are served from the
// roster cache when it is enabled; empty rosters are never cached.
func (s *PortalService) FetchRoster(ctx context.Context) ([]models.RawPokemon, error) {
	if s.rosterCache != nil {
		if roster, ok := s.rosterCache.Get(rosterCacheKey); ok {
			metrics.RosterCacheHits.Inc()
			return roster, nil
		}
		metrics.RosterCacheMisses.Inc()
	}

	params := url.Values{}
	params.Set("a", "1")
	roster, err := s.fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	if len(roster) == 0 {
		s.logger.Warn("No pokemon data found in the portal response")
		return roster, nil
	}

	if s.rosterCache != nil {
		s.rosterCache.Add(rosterCacheKey, roster)
	}
	return roster, nil
}

// FetchImageURL returns the absolute artwork URL of the first candidate for
// name. ErrNotFound is returned when there is no candidate or it has no image.
func (s *PortalService) FetchImageURL(ctx context.Context, name string) (string, error) {
	results, err := s.search(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image for %q: %w", name, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no pokemon data for %q: %w", name, ErrNotFound)
	}

	fileName := results[0].FileName
	if fileName == "" {
		return "", fmt.Errorf("no image for %q: %w", name, ErrNotFound)
	}
	if !strings.HasPrefix(fileName, "/") {
		fileName = "/" + fileName
	}
	return s.imageBaseURL + fileName, nil
}
