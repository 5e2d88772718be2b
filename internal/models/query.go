package models

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultTolerance is used when the caller does not supply one.
	DefaultTolerance = 0.1
	// MaxTolerance caps the expanding search.
	MaxTolerance = 1.0
	// ToleranceStep is added each time a pass comes back empty.
	ToleranceStep = 0.1
)

// ErrInvalidQuery is returned for body queries that cannot be evaluated.
var ErrInvalidQuery = errors.New("invalid query")

// ToleranceQuery describes a body-metrics search. Tolerance is fractional
// (0.1 = 10%).
type ToleranceQuery struct {
	TargetHeightCM float64 `json:"height"`
	TargetWeightKG float64 `json:"weight"`
	Tolerance      float64 `json:"tolerance"`
}

// NewToleranceQuery builds a validated query.
func NewToleranceQuery(heightCM, weightKG, tolerance float64) (ToleranceQuery, error) {
	q := ToleranceQuery{
		TargetHeightCM: heightCM,
		TargetWeightKG: weightKG,
		Tolerance:      tolerance,
	}
	return q, q.Validate()
}

// Validate rejects targets that would make the relative difference undefined.
func (q ToleranceQuery) Validate() error {
	if math.IsNaN(q.TargetHeightCM) || math.IsInf(q.TargetHeightCM, 0) || q.TargetHeightCM <= 0 {
		return fmt.Errorf("%w: height must be a positive number, got %v", ErrInvalidQuery, q.TargetHeightCM)
	}
	if math.IsNaN(q.TargetWeightKG) || math.IsInf(q.TargetWeightKG, 0) || q.TargetWeightKG <= 0 {
		return fmt.Errorf("%w: weight must be a positive number, got %v", ErrInvalidQuery, q.TargetWeightKG)
	}
	if math.IsNaN(q.Tolerance) || q.Tolerance < 0 || q.Tolerance > MaxTolerance {
		return fmt.Errorf("%w: tolerance must be between 0 and %v, got %v", ErrInvalidQuery, MaxTolerance, q.Tolerance)
	}
	return nil
}
