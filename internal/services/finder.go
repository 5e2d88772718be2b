package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/metrics"
	"github.com/codyseavey/poke-finder/backend/internal/models"
)

// PokemonGateway is the vendor API surface the finder depends on.
type PokemonGateway interface {
	LookupByName(ctx context.Context, query string) (models.NameLookup, error)
	FetchRoster(ctx context.Context) ([]models.RawPokemon, error)
	FetchImageURL(ctx context.Context, name string) (string, error)
}

// WikiScraper is the wiki surface the finder depends on.
type WikiScraper interface {
	FindRow(ctx context.Context, localizedName string) (*models.WikiRow, error)
	ExtractDisplayNameAndImage(row models.WikiRow) (string, string)
}

// FinderService answers the two queries of the service: lookup by name and
// lookup by body metrics. Calls to the upstreams are made one after another.
type FinderService struct {
	gateway PokemonGateway
	wiki    WikiScraper
	chooser Chooser
	logger  *zap.SugaredLogger
}

// NewFinderService wires the finder. A nil chooser falls back to the global
// random source.
func NewFinderService(gateway PokemonGateway, wiki WikiScraper, chooser Chooser, logger *zap.SugaredLogger) *FinderService {
	if chooser == nil {
		chooser = globalChooser{}
	}
	return &FinderService{
		gateway: gateway,
		wiki:    wiki,
		chooser: chooser,
		logger:  logger,
	}
}

// ResolveName returns the localized name and type for name, or nil if the
// portal search has no candidates.
func (f *FinderService) ResolveName(ctx context.Context, name string) (*models.NameLookup, error) {
	lookup, err := f.gateway.LookupByName(ctx, name)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("name", string(Classify(err))).Inc()
		return nil, err
	}
	if !lookup.Matched {
		metrics.LookupsTotal.WithLabelValues("name", string(models.OutcomeNotFound)).Inc()
		return nil, nil
	}
	metrics.LookupsTotal.WithLabelValues("name", string(models.OutcomeFound)).Inc()
	return &lookup, nil
}

// FindByName resolves name through the portal and the wiki. It returns nil
// when the portal has no candidate. A wiki miss keeps the record without an
// image; upstream failures are returned.
func (f *FinderService) FindByName(ctx context.Context, name string) (*models.PokemonRecord, error) {
	lookup, err := f.ResolveName(ctx, name)
	if err != nil || lookup == nil {
		return nil, err
	}

	record := &models.PokemonRecord{
		Name: lookup.LocalizedName,
		Type: lookup.Type,
	}

	row, err := f.wiki.FindRow(ctx, lookup.LocalizedName)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSchemaMismatch):
		f.logger.Warnf("No wiki entry for %s: %v", lookup.LocalizedName, err)
		return record, nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve %s in wiki: %w", lookup.LocalizedName, err)
	}

	_, record.ImageURL = f.wiki.ExtractDisplayNameAndImage(*row)
	return record, nil
}

// FindByBody returns every pokemon within tolerance of the query and a
// randomly highlighted one with its artwork resolved. An unreachable roster is
// logged and treated as no data; only invalid queries are errors.
func (f *FinderService) FindByBody(ctx context.Context, q models.ToleranceQuery) (models.BodyMatch, error) {
	if err := q.Validate(); err != nil {
		metrics.LookupsTotal.WithLabelValues("body", string(models.OutcomeInvalid)).Inc()
		return models.BodyMatch{}, err
	}

	roster, err := f.gateway.FetchRoster(ctx)
	if err != nil {
		f.logger.Errorf("Failed to fetch pokemon data: %v", err)
		metrics.LookupsTotal.WithLabelValues("body", string(models.OutcomeUnavailable)).Inc()
		return models.BodyMatch{Candidates: []models.PokemonRecord{}}, nil
	}

	match, err := MatchByBody(roster, q, f.logger)
	if err != nil {
		return models.BodyMatch{}, err
	}
	if match.Empty() {
		metrics.LookupsTotal.WithLabelValues("body", string(models.OutcomeNotFound)).Inc()
		return match, nil
	}
	metrics.LookupsTotal.WithLabelValues("body", string(models.OutcomeFound)).Inc()
	metrics.MatchTolerance.Observe(match.ToleranceUsed)

	pick := match.Candidates[f.chooser.IntN(len(match.Candidates))]
	imageURL, err := f.gateway.FetchImageURL(ctx, pick.Name)
	if err != nil {
		f.logger.Warnf("Failed to fetch image for %s: %v", pick.Name, err)
	}
	pick.ImageURL = imageURL
	match.Highlighted = &pick

	return match, nil
}
