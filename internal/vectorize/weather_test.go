package vectorize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/fuzzy"
	"github.com/jonathan/context-suggester/internal/types"
)

func conditions(temp, humidity, wind float64, code int) types.Conditions {
	return types.Conditions{
		Temperature:         temp,
		ApparentTemperature: math.NaN(),
		Humidity:            humidity,
		WindSpeed:           wind,
		WeatherCode:         code,
		ObservedAt:          time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC),
		Source:              "test",
	}
}

func TestFamilies_AreValidPartitions(t *testing.T) {
	for _, f := range []fuzzy.Family{TemperatureFamily, HumidityFamily, WindFamily, HourFamily, SeasonFamily} {
		assert.NoError(t, f.Validate(), f.Name)
	}
}

func TestFamilies_ActivationsSumToOne(t *testing.T) {
	tests := []struct {
		family     fuzzy.Family
		start, end float64
		step       float64
	}{
		{TemperatureFamily, -30, 50, 0.25},
		{HumidityFamily, 0, 100, 0.5},
		{WindFamily, 0, 120, 0.5},
		{HourFamily, 0, 24, 0.1},
		{SeasonFamily, 0, 365, 1},
	}

	for _, tt := range tests {
		t.Run(tt.family.Name, func(t *testing.T) {
			for v := tt.start; v < tt.end; v += tt.step {
				sum := 0.0
				active := 0
				for _, a := range fuzzy.Evaluate(v, tt.family) {
					assert.GreaterOrEqual(t, a, 0.0)
					assert.LessOrEqual(t, a, 1.0)
					sum += a
					if a > 0 {
						active++
					}
				}
				assert.InDelta(t, 1.0, sum, 1e-9, "value %v", v)
				assert.LessOrEqual(t, active, 2, "value %v", v)
			}
		})
	}
}

func TestWeather_FifteenDegrees(t *testing.T) {
	p := Weather(conditions(15, 50, 2, 0))

	assert.Equal(t, SourceWeather, p.Source)
	assert.InDelta(t, 0.7, p.Values[features.TempCool], 1e-9)
	assert.InDelta(t, 0.3, p.Values[features.TempCold], 1e-9)
	assert.Equal(t, 0.0, p.Values[features.TempWarm])
	assert.Equal(t, 1.0, p.Values[features.HumidityComfortable])
	assert.Equal(t, 1.0, p.Values[features.WindCalm])
	assert.Equal(t, 1.0, p.Values[features.WeatherClear])
}

func TestWeather_EveryKeyOfOwnedGroups(t *testing.T) {
	p := Weather(conditions(15, 50, 2, 0))

	want := 0
	for _, g := range p.Groups {
		for _, k := range features.KeysIn(g) {
			_, ok := p.Values[k]
			assert.True(t, ok, "missing %s", k)
			want++
		}
	}
	assert.Len(t, p.Values, want)
}

func TestWeather_WindTransition(t *testing.T) {
	p := Weather(conditions(20, 50, 5, 0))
	assert.InDelta(t, 0.6, p.Values[features.WindCalm], 1e-9)
	assert.InDelta(t, 0.4, p.Values[features.WindBreeze], 1e-9)
}

func TestWeather_ExtremesClampToOuterBands(t *testing.T) {
	p := Weather(conditions(-40, 100, 150, 0))
	assert.Equal(t, 1.0, p.Values[features.TempExtremeCold])
	assert.Equal(t, 1.0, p.Values[features.HumidityVeryHumid])
	assert.Equal(t, 1.0, p.Values[features.WindStorm])

	p = Weather(conditions(48, 0, 0, 0))
	assert.Equal(t, 1.0, p.Values[features.TempHot])
	assert.Equal(t, 1.0, p.Values[features.HumidityVeryDry])
}

func TestWeather_UnknownReadings(t *testing.T) {
	cond := conditions(math.NaN(), math.NaN(), math.NaN(), types.MissingWeatherCode)
	p := Weather(cond)

	for k, v := range p.Values {
		assert.Equal(t, 0.0, v, "%s should be inactive", k)
	}
}

func TestWeather_Codes(t *testing.T) {
	tests := []struct {
		code int
		key  features.Key
		want float64
	}{
		{0, features.WeatherClear, 1.0},
		{1, features.WeatherClear, 0.8},
		{1, features.WeatherPartlyCloudy, 0.2},
		{3, features.WeatherCloudy, 1.0},
		{48, features.WeatherFog, 1.0},
		{53, features.WeatherDrizzle, 0.8},
		{63, features.WeatherRain, 0.8},
		{75, features.WeatherSnow, 1.0},
		{80, features.WeatherRainShower, 0.6},
		{85, features.WeatherSnowShower, 0.7},
		{99, features.WeatherThunderstorm, 1.0},
	}

	for _, tt := range tests {
		p := Weather(conditions(20, 50, 5, tt.code))
		assert.Equal(t, tt.want, p.Values[tt.key], "code %d %s", tt.code, tt.key)
	}
}

func TestWeather_UnknownCodeActivatesNothing(t *testing.T) {
	p := Weather(conditions(20, 50, 5, 42))
	for _, k := range features.KeysIn(features.GroupWeather) {
		assert.Equal(t, 0.0, p.Values[k], "%s", k)
	}
}

func TestEffectiveTemperature(t *testing.T) {
	assert.InDelta(t, 17.0, EffectiveTemperature(10, 20), 1e-9)
	assert.Equal(t, 10.0, EffectiveTemperature(10, math.NaN()))
	assert.Equal(t, 20.0, EffectiveTemperature(math.NaN(), 20))
	assert.True(t, math.IsNaN(EffectiveTemperature(math.NaN(), math.NaN())))
}

func TestBuild_EndToEnd(t *testing.T) {
	cond := conditions(15, 50, 2, 61)
	vec, err := Build(cond, cond.ObservedAt, DefaultCalendar(), DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, len(features.All()), vec.Len())
	assert.InDelta(t, 0.7, vec.Get(features.TempCool), 1e-9)
	assert.InDelta(t, 0.3, vec.Get(features.TempCold), 1e-9)
	assert.Equal(t, 0.6, vec.Get(features.WeatherRain))
	assert.Equal(t, 1.0, vec.Get(features.TimeEvening))
	assert.Equal(t, 1.0, vec.Get(features.DayWeekend))
	// rain + evening lifts calm above the rain-only rule
	assert.InDelta(t, 0.48, vec.Get(features.MoodCalm), 1e-9)

	for _, k := range vec.Keys() {
		v := vec.Get(k)
		assert.True(t, v >= 0 && v <= 1, "%s out of range: %v", k, v)
	}
}

func TestBuild_RejectsBadRules(t *testing.T) {
	cond := conditions(15, 50, 2, 61)
	rules := []Rule{{Name: "bad", Output: features.WeatherRain, Combine: Constant, Gain: 1}}

	_, err := Build(cond, cond.ObservedAt, DefaultCalendar(), rules)
	require.Error(t, err)
	var ruleErr *RuleError
	assert.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, err.Error(), "inference stage")
}
