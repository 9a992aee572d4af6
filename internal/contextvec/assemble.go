package contextvec

import (
	"fmt"

	"github.com/jonathan/context-suggester/internal/features"
)

// Partial is the output of one vectorizer. Groups lists the feature groups the source owns;
// every key in Values must belong to one of them.
type Partial struct {
	Source string
	Groups []features.Group
	Values map[features.Key]float64
}

// Assembler merges partial mappings in pipeline order (weather, time, human context).
// Later stages may read earlier keys through View but never assign them.
type Assembler struct {
	values  map[features.Key]float64
	owner   map[features.Key]string
	claimed map[features.Group]string
	built   bool
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		values:  make(map[features.Key]float64),
		owner:   make(map[features.Key]string),
		claimed: make(map[features.Group]string),
	}
}

// Add merges one partial mapping. Any conflict is a configuration error and leaves the
// assembler unchanged.
func (a *Assembler) Add(p Partial) error {
	if a.built {
		return &AssemblyError{Source: p.Source, Message: "assembler already built"}
	}
	if p.Source == "" {
		return &AssemblyError{Message: "partial has no source name"}
	}

	owned := make(map[features.Group]bool, len(p.Groups))
	for _, g := range p.Groups {
		if !features.KnownGroup(g) {
			return &AssemblyError{Source: p.Source, Message: fmt.Sprintf("unknown group %q", g)}
		}
		if prev, ok := a.claimed[g]; ok {
			return &ConflictError{Group: g, First: prev, Second: p.Source}
		}
		owned[g] = true
	}

	keys := make([]features.Key, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	features.SortKeys(keys)

	for _, k := range keys {
		if err := checkValue(p.Source, k, p.Values[k]); err != nil {
			return err
		}
		if prev, ok := a.owner[k]; ok {
			return &ConflictError{Key: k, First: prev, Second: p.Source}
		}
		g, _ := features.GroupOf(k)
		if !owned[g] {
			return &AssemblyError{
				Source:  p.Source,
				Key:     k,
				Message: fmt.Sprintf("key belongs to group %q which the source does not own", g),
			}
		}
	}

	for g := range owned {
		a.claimed[g] = p.Source
	}
	for _, k := range keys {
		a.values[k] = p.Values[k]
		a.owner[k] = p.Source
	}
	return nil
}

// View returns a snapshot of everything merged so far, with unassigned keys at 0.0.
func (a *Assembler) View() Vector {
	out := zeroValues()
	for k, v := range a.values {
		out[k] = v
	}
	return Vector{values: out}
}

// Owner returns the source that assigned k, if any.
func (a *Assembler) Owner(k features.Key) (string, bool) {
	src, ok := a.owner[k]
	return src, ok
}

// Build fills every unassigned vocabulary key with 0.0 and returns the final vector.
func (a *Assembler) Build() (Vector, error) {
	if a.built {
		return Vector{}, &AssemblyError{Message: "assembler already built"}
	}
	a.built = true
	return a.View(), nil
}
