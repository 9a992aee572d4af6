// Package ranking scores catalog suggestions against the context vector and groups the results.
package ranking

import (
	"fmt"
	"math"

	"github.com/jonathan/context-suggester/internal/contextvec"
	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/types"
)

// DefaultVetoThreshold is the activation at or above which a veto preference discards a suggestion.
const DefaultVetoThreshold = 0.5

// Engine computes group-weighted similarity scores with the veto rule.
type Engine struct {
	Weights       features.GroupWeights
	VetoThreshold float64
}

// NewEngine validates the weight table and veto threshold.
func NewEngine(weights features.GroupWeights, vetoThreshold float64) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(vetoThreshold) || vetoThreshold <= 0 || vetoThreshold > 1 {
		return nil, fmt.Errorf("veto threshold must be within (0, 1], got %v", vetoThreshold)
	}
	return &Engine{Weights: weights, VetoThreshold: vetoThreshold}, nil
}

// DefaultEngine returns an engine with the default weight table and veto threshold.
func DefaultEngine() *Engine {
	return &Engine{Weights: features.DefaultGroupWeights(), VetoThreshold: DefaultVetoThreshold}
}

// Score scores one suggestion against vec.
//
// Preferences are visited in canonical vocabulary order. A veto preference on a feature active at or
// above the threshold discards the suggestion immediately. Otherwise each activation × preference is
// summed per group, each group subtotal is multiplied by its weight once, and the weighted subtotals
// are added in canonical group order. A suggestion sharing no active feature with the vector scores 0.
func (e *Engine) Score(vec contextvec.Vector, s types.Suggestion) (types.ScoredSuggestion, error) {
	keys := make([]features.Key, 0, len(s.Preferences))
	for k := range s.Preferences {
		keys = append(keys, k)
	}
	features.SortKeys(keys)

	// every key is checked before any activation is read
	for _, k := range keys {
		if !features.Known(k) {
			return types.ScoredSuggestion{}, &UnknownFeatureError{SuggestionID: s.Identity(), Key: k}
		}
		if p := s.Preferences[k]; !validPreference(p) {
			return types.ScoredSuggestion{}, &PreferenceError{SuggestionID: s.Identity(), Key: k, Value: p}
		}
	}

	result := types.ScoredSuggestion{Suggestion: s}
	subtotals := make(map[features.Group]float64)

	for _, k := range keys {
		c := vec.Get(k)
		p := s.Preferences[k]

		if types.IsVeto(p) {
			if c >= e.VetoThreshold {
				result.Vetoed = true
				result.VetoKey = k
				result.Score = 0
				result.Contributions = nil
				return result, nil
			}
			// a dormant veto contributes nothing
			continue
		}

		g, _ := features.GroupOf(k)
		value := c * p
		subtotals[g] += value
		if value != 0 {
			result.Contributions = append(result.Contributions, types.Contribution{
				Feature:    k,
				Group:      g,
				Activation: c,
				Preference: p,
				Value:      value,
			})
		}
	}

	score := 0.0
	for _, g := range features.Groups() {
		if sub, ok := subtotals[g]; ok {
			score += e.Weights[g] * sub
		}
	}
	result.Score = score

	return result, nil
}

// ScoreAll scores every suggestion. Suggestions that fail to score are reported as issues and left
// out of the returned slice; vetoed suggestions are kept so the aggregator can count them.
func (e *Engine) ScoreAll(vec contextvec.Vector, items []types.Suggestion) ([]types.ScoredSuggestion, []types.Issue) {
	scored := make([]types.ScoredSuggestion, 0, len(items))
	var issues []types.Issue

	for _, s := range items {
		result, err := e.Score(vec, s)
		if err != nil {
			issues = append(issues, types.Issue{
				Kind:    types.IssueScoring,
				Source:  s.Source,
				Message: err.Error(),
			})
			continue
		}
		scored = append(scored, result)
	}

	return scored, issues
}

func validPreference(p float64) bool {
	if types.IsVeto(p) {
		return true
	}
	return !math.IsNaN(p) && p >= -1 && p <= 1
}

// UnknownFeatureError reports a preference key outside the feature vocabulary.
type UnknownFeatureError struct {
	SuggestionID string
	Key          features.Key
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("suggestion %q: unknown feature %q", e.SuggestionID, e.Key)
}

// PreferenceError reports a preference value outside [-1, 1] that is not the veto sentinel.
type PreferenceError struct {
	SuggestionID string
	Key          features.Key
	Value        float64
}

func (e *PreferenceError) Error() string {
	return fmt.Sprintf("suggestion %q: preference %s=%v is outside [-1, 1] and not a veto", e.SuggestionID, e.Key, e.Value)
}
