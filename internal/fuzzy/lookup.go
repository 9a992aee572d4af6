package fuzzy

// Activation is one named output of a categorical lookup.
type Activation struct {
	Name  string
	Value float64
}

// CodeTable maps discrete codes to fixed activations. Codes are not interpolated.
type CodeTable struct {
	Name    string
	Entries map[int][]Activation
	// Default applies to codes missing from Entries. Leave empty to treat them as unknown.
	Default []Activation
}

// Lookup returns the activations for code, falling back to the table default.
func (t CodeTable) Lookup(code int) []Activation {
	if acts, ok := t.Entries[code]; ok {
		return acts
	}
	return t.Default
}

// Apply looks up code and returns one activation per name in names; unmatched names are 0.0.
// Repeated names in an entry combine by max.
func (t CodeTable) Apply(code int, names []string) map[string]float64 {
	out := make(map[string]float64, len(names))
	for _, n := range names {
		out[n] = 0
	}
	for _, a := range t.Lookup(code) {
		if _, ok := out[a.Name]; !ok {
			continue
		}
		if v := Clamp01(a.Value); v > out[a.Name] {
			out[a.Name] = v
		}
	}
	return out
}
