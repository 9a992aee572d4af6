// Package types provides type definitions for structured data used throughout the suggestion engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/context-suggester/internal/features"
)

// VetoSentinel is the reserved preference value meaning "discard this suggestion when the feature
// is strongly active". It is the only preference allowed outside [-1, 1].
const VetoSentinel = -10.0

// Suggestion is one catalog entry with its feature preferences.
type Suggestion struct {
	ID          string                   `json:"id,omitempty" validate:"omitempty,max=128"`
	Text        string                   `json:"text" validate:"required,max=500"`
	Category    string                   `json:"category" validate:"required,max=128"`
	Subcategory string                   `json:"subcategory" validate:"required,max=128"`
	Preferences map[features.Key]float64 `json:"preferencesJson"`

	// Source is the catalog file the record came from.
	Source string `json:"-"`
	// Index is the catalog insertion order, used as the ranking tie-break.
	Index int `json:"-"`
}

// Identity returns the ID when set, otherwise the display text.
func (s *Suggestion) Identity() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Text
}

// Validate validates the Suggestion struct tags using the validator.
func (s *Suggestion) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// IsVeto reports whether p is the veto sentinel.
func IsVeto(p float64) bool {
	return p == VetoSentinel
}

// Contribution records one feature's share of a suggestion score.
type Contribution struct {
	Feature    features.Key   `json:"feature"`
	Group      features.Group `json:"group"`
	Activation float64        `json:"activation"`
	Preference float64        `json:"preference"`
	Value      float64        `json:"value"`
}

// ScoredSuggestion pairs a suggestion with its score or veto.
type ScoredSuggestion struct {
	Suggestion    Suggestion     `json:"suggestion"`
	Score         float64        `json:"score"`
	Vetoed        bool           `json:"vetoed"`
	VetoKey       features.Key   `json:"veto_key,omitempty"`
	Contributions []Contribution `json:"contributions,omitempty"`
}
