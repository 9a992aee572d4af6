package vectorize

import (
	"fmt"
	"time"

	"github.com/jonathan/context-suggester/internal/contextvec"
	"github.com/jonathan/context-suggester/internal/types"
)

// Build runs the weather, time and inference stages in order and assembles the context vector.
// Any assembly error is fatal: it means the stages disagree about who owns a feature.
func Build(cond types.Conditions, ts time.Time, cal Calendar, rules []Rule) (contextvec.Vector, error) {
	asm := contextvec.NewAssembler()

	if err := asm.Add(Weather(cond)); err != nil {
		return contextvec.Vector{}, fmt.Errorf("weather stage: %w", err)
	}
	if err := asm.Add(Time(ts, cal)); err != nil {
		return contextvec.Vector{}, fmt.Errorf("time stage: %w", err)
	}

	inferred, err := Infer(asm.View(), rules)
	if err != nil {
		return contextvec.Vector{}, fmt.Errorf("inference stage: %w", err)
	}
	if err := asm.Add(inferred); err != nil {
		return contextvec.Vector{}, fmt.Errorf("inference stage: %w", err)
	}

	return asm.Build()
}
