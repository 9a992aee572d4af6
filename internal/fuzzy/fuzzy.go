// Package fuzzy provides piecewise-linear membership functions that turn a raw reading into
// bounded, overlapping category activations.
package fuzzy

import (
	"fmt"
	"math"
)

// Band is a trapezoidal membership function. Activation rises linearly from Lower to PeakStart,
// stays at 1.0 across [PeakStart, PeakEnd] and falls linearly to zero at Upper.
// Outer bands use infinite edges so readings past the table clamp to them.
type Band struct {
	Name      string
	Lower     float64
	PeakStart float64
	PeakEnd   float64
	Upper     float64
}

// Membership returns the activation of the band for v, in [0,1].
func (b Band) Membership(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v >= b.PeakStart && v <= b.PeakEnd {
		return 1
	}
	if v < b.PeakStart {
		if v <= b.Lower {
			return 0
		}
		return Clamp01((v - b.Lower) / (b.PeakStart - b.Lower))
	}
	if v >= b.Upper {
		return 0
	}
	return Clamp01((b.Upper - v) / (b.Upper - b.PeakEnd))
}

// Family is an ordered set of adjacent bands covering one measurement.
// A positive Period makes the family circular (hour of day, day of year).
type Family struct {
	Name   string
	Bands  []Band
	Period float64
}

// Names returns the band names in order.
func (f Family) Names() []string {
	names := make([]string, len(f.Bands))
	for i, b := range f.Bands {
		names[i] = b.Name
	}
	return names
}

// Validate checks the family forms a partition: each band's falling edge is exactly the next band's
// rising edge, so any reading activates at most two adjacent bands whose activations sum to 1.0.
func (f Family) Validate() error {
	if len(f.Bands) == 0 {
		return &BandError{Family: f.Name, Message: "no bands defined"}
	}

	seen := make(map[string]bool, len(f.Bands))
	for i, b := range f.Bands {
		if b.Name == "" {
			return &BandError{Family: f.Name, Message: fmt.Sprintf("band %d has no name", i)}
		}
		if seen[b.Name] {
			return &BandError{Family: f.Name, Message: fmt.Sprintf("duplicate band %q", b.Name)}
		}
		seen[b.Name] = true

		if math.IsNaN(b.Lower) || math.IsNaN(b.PeakStart) || math.IsNaN(b.PeakEnd) || math.IsNaN(b.Upper) {
			return &BandError{Family: f.Name, Message: fmt.Sprintf("band %q has a NaN boundary", b.Name)}
		}
		if !(b.Lower <= b.PeakStart && b.PeakStart <= b.PeakEnd && b.PeakEnd <= b.Upper) {
			return &BandError{Family: f.Name, Message: fmt.Sprintf("band %q boundaries are not ordered", b.Name)}
		}

		if i == 0 {
			continue
		}
		prev := f.Bands[i-1]
		if prev.PeakEnd != b.Lower || prev.Upper != b.PeakStart {
			return &BandError{
				Family:  f.Name,
				Message: fmt.Sprintf("bands %q and %q do not share a transition", prev.Name, b.Name),
			}
		}
	}

	first, last := f.Bands[0], f.Bands[len(f.Bands)-1]
	if f.Period > 0 {
		if first.Lower != last.PeakEnd-f.Period || first.PeakStart != last.Upper-f.Period {
			return &BandError{Family: f.Name, Message: "circular family does not wrap between last and first band"}
		}
		return nil
	}
	if !math.IsInf(first.Lower, -1) || !math.IsInf(last.Upper, 1) {
		return &BandError{Family: f.Name, Message: "outer bands must extend to infinity"}
	}
	return nil
}

// Evaluate maps v to an activation per band name. Every band is present in the result.
// A NaN reading is unknown and leaves every band at 0.0.
func Evaluate(v float64, f Family) map[string]float64 {
	out := make(map[string]float64, len(f.Bands))
	for _, b := range f.Bands {
		out[b.Name] = 0
	}
	if math.IsNaN(v) {
		return out
	}

	if f.Period <= 0 {
		for _, b := range f.Bands {
			out[b.Name] = b.Membership(v)
		}
		return out
	}

	v = math.Mod(v, f.Period)
	if v < 0 {
		v += f.Period
	}
	for _, b := range f.Bands {
		m := b.Membership(v)
		m = math.Max(m, b.Membership(v-f.Period))
		m = math.Max(m, b.Membership(v+f.Period))
		out[b.Name] = m
	}
	return out
}

// Clamp01 bounds v to [0,1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BandError reports a malformed band table.
type BandError struct {
	Family  string
	Message string
}

func (e *BandError) Error() string {
	return fmt.Sprintf("fuzzy family %s: %s", e.Family, e.Message)
}
