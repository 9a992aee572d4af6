// Package contextvec assembles partial feature mappings into the immutable context vector.
package contextvec

import (
	"math"
	"sort"

	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/types"
)

// Vector is a complete, read-only mapping from every feature key to an activation in [0,1].
type Vector struct {
	values map[features.Key]float64
}

// FromMap builds a vector directly from values, filling unset keys with 0.0.
// It applies the same key and range checks as the assembler.
func FromMap(values map[features.Key]float64) (Vector, error) {
	keys := make([]features.Key, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	features.SortKeys(keys)

	out := zeroValues()
	for _, k := range keys {
		if err := checkValue("direct", k, values[k]); err != nil {
			return Vector{}, err
		}
		out[k] = values[k]
	}
	return Vector{values: out}, nil
}

// Get returns the activation for k; keys outside the vocabulary read as 0.0.
func (v Vector) Get(k features.Key) float64 {
	return v.values[k]
}

// Keys returns every dimension in canonical vocabulary order.
func (v Vector) Keys() []features.Key {
	return features.All()
}

// Has reports whether k is a dimension of the vector.
func (v Vector) Has(k features.Key) bool {
	_, ok := v.values[k]
	return ok
}

// Len returns the number of dimensions.
func (v Vector) Len() int {
	return len(v.values)
}

// Values returns a copy of the underlying mapping.
func (v Vector) Values() map[features.Key]float64 {
	out := make(map[features.Key]float64, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// Active returns every feature whose activation is strictly above min, strongest first.
// Equal activations keep canonical vocabulary order.
func (v Vector) Active(min float64) []types.FeatureActivation {
	var out []types.FeatureActivation
	for _, k := range features.All() {
		val := v.values[k]
		if val <= min {
			continue
		}
		g, _ := features.GroupOf(k)
		out = append(out, types.FeatureActivation{Feature: k, Group: g, Value: val})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

// Top returns at most n of the Active(min) features.
func (v Vector) Top(n int, min float64) []types.FeatureActivation {
	active := v.Active(min)
	if n >= 0 && len(active) > n {
		active = active[:n]
	}
	return active
}

// Group returns the activations of one group in canonical order.
func (v Vector) Group(g features.Group) []types.FeatureActivation {
	keys := features.KeysIn(g)
	out := make([]types.FeatureActivation, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.FeatureActivation{Feature: k, Group: g, Value: v.values[k]})
	}
	return out
}

func zeroValues() map[features.Key]float64 {
	all := features.All()
	out := make(map[features.Key]float64, len(all))
	for _, k := range all {
		out[k] = 0
	}
	return out
}

func checkValue(source string, k features.Key, val float64) error {
	if !features.Known(k) {
		return &AssemblyError{Source: source, Key: k, Message: "key is not part of the feature vocabulary"}
	}
	if math.IsNaN(val) || val < 0 || val > 1 {
		return &AssemblyError{Source: source, Key: k, Message: "activation must be within [0, 1]"}
	}
	return nil
}
