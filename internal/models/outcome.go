package models

// Outcome classifies the result of a lookup.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeInvalid     Outcome = "invalid"
)
