package services

import (
	"math"

	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/metrics"
	"github.com/codyseavey/poke-finder/backend/internal/models"
)

// bodyCandidate is a roster entry with metrics normalized to cm and kg.
type bodyCandidate struct {
	raw      models.RawPokemon
	heightCM float64
	weightKG float64
}

// MatchByBody returns every roster entry whose height and weight both lie
// within the tolerance of the query. When nothing matches, the tolerance grows
// by ToleranceStep and the scan repeats, up to and including MaxTolerance.
// The result carries the tolerance the search settled on; it is empty if even
// MaxTolerance yields nothing.
//
// Entries without a name or with a missing or non-numeric height or weight are
// skipped and logged.
func MatchByBody(roster []models.RawPokemon, q models.ToleranceQuery, logger *zap.SugaredLogger) (models.BodyMatch, error) {
	if err := q.Validate(); err != nil {
		return models.BodyMatch{}, err
	}

	candidates := normalizeRoster(roster, logger)

	for step := 0; ; step++ {
		tolerance := toleranceAt(q.Tolerance, step)
		if tolerance > models.MaxTolerance {
			break
		}

		var matches []models.PokemonRecord
		for _, c := range candidates {
			if withinTolerance(c.heightCM, q.TargetHeightCM, tolerance) &&
				withinTolerance(c.weightKG, q.TargetWeightKG, tolerance) {
				matches = append(matches, c.record())
			}
		}

		if len(matches) > 0 {
			return models.BodyMatch{Candidates: matches, ToleranceUsed: tolerance}, nil
		}
		logger.Infof("No pokemon found with tolerance %.1f, increasing tolerance", tolerance)
	}

	return models.BodyMatch{Candidates: []models.PokemonRecord{}}, nil
}

// toleranceAt computes the tolerance of a given pass from the step index so
// repeated additions do not drift past MaxTolerance.
func toleranceAt(initial float64, step int) float64 {
	t := initial + float64(step)*models.ToleranceStep
	return math.Round(t*1e9) / 1e9
}

func withinTolerance(value, target, tolerance float64) bool {
	return math.Abs(value-target)/target <= tolerance
}

func normalizeRoster(roster []models.RawPokemon, logger *zap.SugaredLogger) []bodyCandidate {
	candidates := make([]bodyCandidate, 0, len(roster))
	skipped := 0

	for _, p := range roster {
		if p.Name == "" {
			logger.Debug("Skipping pokemon without a name")
			skipped++
			continue
		}
		height, err := p.Height.Float()
		if err != nil {
			logger.Debugf("Skipping invalid pokemon data for %s: height: %v", p.Name, err)
			skipped++
			continue
		}
		weight, err := p.Weight.Float()
		if err != nil {
			logger.Debugf("Skipping invalid pokemon data for %s: weight: %v", p.Name, err)
			skipped++
			continue
		}
		candidates = append(candidates, bodyCandidate{
			raw:      p,
			heightCM: math.Round(height*100*1e6) / 1e6,
			weightKG: weight,
		})
	}

	if skipped > 0 {
		metrics.MalformedRecordsTotal.Add(float64(skipped))
		logger.Warnf("Skipped %d invalid pokemon entries out of %d", skipped, len(roster))
	}
	return candidates
}

func (c bodyCandidate) record() models.PokemonRecord {
	height, weight := c.heightCM, c.weightKG
	return models.PokemonRecord{
		Name:     c.raw.Name,
		Type:     c.raw.TypePtr(),
		HeightCM: &height,
		WeightKG: &weight,
	}
}
