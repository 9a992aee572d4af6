package fuzzy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inf = math.Inf(1)

func tempFamily() Family {
	return Family{
		Name: "temp",
		Bands: []Band{
			{Name: "extreme_cold", Lower: -inf, PeakStart: -inf, PeakEnd: -8, Upper: 0},
			{Name: "cold", Lower: -8, PeakStart: 0, PeakEnd: 8, Upper: 18},
			{Name: "cool", Lower: 8, PeakStart: 18, PeakEnd: 22, Upper: 27},
			{Name: "warm", Lower: 22, PeakStart: 27, PeakEnd: 31, Upper: 35},
			{Name: "hot", Lower: 31, PeakStart: 35, PeakEnd: inf, Upper: inf},
		},
	}
}

func hourFamily() Family {
	return Family{
		Name:   "hour",
		Period: 24,
		Bands: []Band{
			{Name: "late_night", Lower: -1, PeakStart: 0, PeakEnd: 3, Upper: 5},
			{Name: "morning", Lower: 3, PeakStart: 5, PeakEnd: 12, Upper: 14},
			{Name: "evening", Lower: 12, PeakStart: 14, PeakEnd: 20, Upper: 23},
			{Name: "night", Lower: 20, PeakStart: 23, PeakEnd: 23, Upper: 24},
		},
	}
}

func sum(m map[string]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

func TestFamilies_Valid(t *testing.T) {
	require.NoError(t, tempFamily().Validate())
	require.NoError(t, hourFamily().Validate())
}

func TestEvaluate_Plateau(t *testing.T) {
	got := Evaluate(4, tempFamily())
	assert.Equal(t, 1.0, got["cold"])
	assert.Equal(t, 0.0, got["extreme_cold"])
	assert.Equal(t, 0.0, got["cool"])
	assert.Equal(t, 0.0, got["warm"])
	assert.Equal(t, 0.0, got["hot"])
}

func TestEvaluate_TransitionInterpolates(t *testing.T) {
	got := Evaluate(15, tempFamily())
	assert.InDelta(t, 0.7, got["cool"], 1e-9)
	assert.InDelta(t, 0.3, got["cold"], 1e-9)
	assert.Equal(t, 0.0, got["warm"])
	assert.InDelta(t, 1.0, sum(got), 1e-9)
}

func TestEvaluate_ClampsBeyondOuterBands(t *testing.T) {
	assert.Equal(t, 1.0, Evaluate(-40, tempFamily())["extreme_cold"])
	assert.Equal(t, 1.0, Evaluate(55, tempFamily())["hot"])
	assert.InDelta(t, 1.0, sum(Evaluate(55, tempFamily())), 1e-12)
}

func TestEvaluate_NaNIsUnknown(t *testing.T) {
	got := Evaluate(math.NaN(), tempFamily())
	assert.Len(t, got, 5)
	assert.Equal(t, 0.0, sum(got))
}

func TestEvaluate_PartitionProperty(t *testing.T) {
	families := []Family{tempFamily(), hourFamily()}
	for _, fam := range families {
		t.Run(fam.Name, func(t *testing.T) {
			names := fam.Names()
			for v := -30.0; v <= 60.0; v += 0.37 {
				got := Evaluate(v, fam)
				assert.InDelta(t, 1.0, sum(got), 1e-9, "value %v", v)

				var active []int
				for i, n := range names {
					if got[n] > 0 {
						active = append(active, i)
					}
				}
				require.LessOrEqual(t, len(active), 2, "value %v", v)
				if len(active) == 2 {
					adjacent := active[1]-active[0] == 1 ||
						(fam.Period > 0 && active[0] == 0 && active[1] == len(names)-1)
					assert.True(t, adjacent, "value %v activates non-adjacent bands %v", v, active)
				}
			}
		})
	}
}

func TestEvaluate_CircularWrapsMidnight(t *testing.T) {
	got := Evaluate(23.5, hourFamily())
	assert.InDelta(t, 0.5, got["night"], 1e-9)
	assert.InDelta(t, 0.5, got["late_night"], 1e-9)

	// 24h and 48h fold back onto midnight
	assert.Equal(t, 1.0, Evaluate(24, hourFamily())["late_night"])
	assert.Equal(t, 1.0, Evaluate(48.5, hourFamily())["late_night"])
	assert.Equal(t, 1.0, Evaluate(-22, hourFamily())["late_night"])
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		family  Family
		wantMsg string
	}{
		{"empty", Family{Name: "x"}, "no bands defined"},
		{
			"gap between bands",
			Family{Name: "x", Bands: []Band{
				{Name: "a", Lower: -inf, PeakStart: -inf, PeakEnd: 0, Upper: 5},
				{Name: "b", Lower: 1, PeakStart: 5, PeakEnd: inf, Upper: inf},
			}},
			"do not share a transition",
		},
		{
			"unordered",
			Family{Name: "x", Bands: []Band{{Name: "a", Lower: -inf, PeakStart: 3, PeakEnd: 1, Upper: inf}}},
			"not ordered",
		},
		{
			"duplicate",
			Family{Name: "x", Bands: []Band{
				{Name: "a", Lower: -inf, PeakStart: -inf, PeakEnd: 0, Upper: 5},
				{Name: "a", Lower: 0, PeakStart: 5, PeakEnd: inf, Upper: inf},
			}},
			"duplicate band",
		},
		{
			"finite outer edge",
			Family{Name: "x", Bands: []Band{{Name: "a", Lower: 0, PeakStart: 1, PeakEnd: 2, Upper: 3}}},
			"extend to infinity",
		},
		{
			"broken wrap",
			Family{Name: "x", Period: 24, Bands: []Band{
				{Name: "a", Lower: -2, PeakStart: 0, PeakEnd: 10, Upper: 14},
				{Name: "b", Lower: 10, PeakStart: 14, PeakEnd: 23, Upper: 24},
			}},
			"does not wrap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.family.Validate()
			require.Error(t, err)
			var bandErr *BandError
			assert.ErrorAs(t, err, &bandErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCodeTable_Apply(t *testing.T) {
	table := CodeTable{
		Name: "wmo",
		Entries: map[int][]Activation{
			0: {{Name: "clear", Value: 1.0}},
			1: {{Name: "clear", Value: 0.8}, {Name: "cloudy", Value: 0.2}},
			9: {{Name: "mystery", Value: 1.0}},
		},
	}
	names := []string{"clear", "cloudy"}

	got := table.Apply(1, names)
	assert.Equal(t, 0.8, got["clear"])
	assert.Equal(t, 0.2, got["cloudy"])

	unknown := table.Apply(42, names)
	assert.Equal(t, map[string]float64{"clear": 0, "cloudy": 0}, unknown)

	// names outside the requested set are ignored
	assert.Equal(t, map[string]float64{"clear": 0, "cloudy": 0}, table.Apply(9, names))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(3))
	assert.Equal(t, 0.25, Clamp01(0.25))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}
