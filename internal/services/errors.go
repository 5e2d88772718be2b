package services

import (
	"errors"

	"github.com/codyseavey/poke-finder/backend/internal/models"
)

var (
	// ErrNotFound means the upstream answered but had nothing for the query.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable wraps transport, status and decode failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrSchemaMismatch means the wiki page no longer has the expected table layout.
	ErrSchemaMismatch = errors.New("wiki schema mismatch")
	// ErrInvalidQuery rejects body queries that cannot be evaluated.
	ErrInvalidQuery = models.ErrInvalidQuery
)

// Classify maps an error returned by this package onto a lookup outcome.
func Classify(err error) models.Outcome {
	switch {
	case err == nil:
		return models.OutcomeFound
	case errors.Is(err, ErrNotFound):
		return models.OutcomeNotFound
	case errors.Is(err, ErrInvalidQuery):
		return models.OutcomeInvalid
	default:
		return models.OutcomeUnavailable
	}
}
