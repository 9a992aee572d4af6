package features

import (
	"fmt"
	"sort"
	"strings"
)

// GroupWeights maps each group to the positive multiplier applied to its score subtotal.
type GroupWeights map[Group]float64

// DefaultGroupWeights returns the standard weight table.
func DefaultGroupWeights() GroupWeights {
	return GroupWeights{
		GroupTemp:     1.0, // physical comfort
		GroupWeather:  0.9,
		GroupSocial:   0.9,
		GroupMood:     0.9,
		GroupTime:     0.8,
		GroupLocation: 0.8,
		GroupEvents:   0.7,
		GroupHumidity: 0.6,
		GroupWind:     0.6,
		GroupDay:      0.5,
		GroupSeason:   0.5,
		GroupEnergy:   0.5,
	}
}

// WeightError reports an invalid group weight table.
type WeightError struct {
	Message string
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("group weight error: %s", e.Message)
}

// Validate checks that every declared group has a positive weight and no unknown group is present.
func (w GroupWeights) Validate() error {
	var unknown []string
	for g := range w {
		if !KnownGroup(g) {
			unknown = append(unknown, string(g))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &WeightError{Message: fmt.Sprintf("unknown groups: %s", strings.Join(unknown, ", "))}
	}

	for _, g := range Groups() {
		weight, ok := w[g]
		if !ok {
			return &WeightError{Message: fmt.Sprintf("missing weight for group %q", g)}
		}
		if weight <= 0 {
			return &WeightError{Message: fmt.Sprintf("weight for group %q must be positive, got %v", g, weight)}
		}
	}
	return nil
}

// Merge returns a copy of w with the given overrides applied. Override keys are not checked here;
// call Validate on the result.
func (w GroupWeights) Merge(overrides map[string]float64) GroupWeights {
	out := make(GroupWeights, len(w)+len(overrides))
	for g, v := range w {
		out[g] = v
	}
	for name, v := range overrides {
		out[Group(strings.ToLower(strings.TrimSpace(name)))] = v
	}
	return out
}
