package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PokemonRecord is what the service hands back to callers. Height and weight are
// nil when the lookup path does not resolve physical metrics.
type PokemonRecord struct {
	Name     string   `json:"name"`
	Type     *string  `json:"type"`
	HeightCM *float64 `json:"height"` // centimeters
	WeightKG *float64 `json:"weight"` // kilograms
	ImageURL string   `json:"image_url,omitempty"`
}

// RawPokemon is a single entry of the portal pokedex API payload.
type RawPokemon struct {
	Name     string      `json:"pokemon_name"`
	TypeName string      `json:"pokemon_type_name"`
	Height   LooseNumber `json:"height"` // metres
	Weight   LooseNumber `json:"weight"` // kilograms
	FileName string      `json:"file_name"`
}

// PortalResponse wraps every response of the portal pokedex API.
type PortalResponse struct {
	Pokemons []RawPokemon `json:"pokemons"`
}

// LooseNumber holds a numeric field the upstream sends either as a JSON string
// ("0.4") or as a JSON number (0.4). Anything else is kept verbatim so it can be
// rejected when the value is actually needed.
type LooseNumber string

func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = LooseNumber(s)
		return nil
	}
	*n = LooseNumber(data)
	return nil
}

// Float parses the value. Empty, non-numeric and non-finite values are errors.
func (n LooseNumber) Float() (float64, error) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, errors.New("missing value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// TypePtr returns the pokemon type, or nil if the API left it empty.
func (p RawPokemon) TypePtr() *string {
	if p.TypeName == "" {
		return nil
	}
	t := p.TypeName
	return &t
}

// NameLookup is the result of a keyword search against the portal API.
// Matched is false when the search came back empty; LocalizedName then echoes
// the query and Type is nil.
type NameLookup struct {
	LocalizedName string  `json:"name"`
	Type          *string `json:"type"`
	Matched       bool    `json:"-"`
}

// BodyMatch is the outcome of a height/weight search.
type BodyMatch struct {
	Candidates    []PokemonRecord `json:"nearby_pokemon"`
	ToleranceUsed float64         `json:"tolerance_used"`
	Highlighted   *PokemonRecord  `json:"highlighted,omitempty"`
}

// Empty reports whether the search produced no candidates.
func (m BodyMatch) Empty() bool {
	return len(m.Candidates) == 0
}
