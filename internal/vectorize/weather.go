// Package vectorize converts raw conditions, timestamps and already-computed features into partial
// context-vector mappings.
package vectorize

import (
	"math"

	"github.com/jonathan/context-suggester/internal/contextvec"
	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/fuzzy"
	"github.com/jonathan/context-suggester/internal/types"
)

// Source names used when merging partials.
const (
	SourceWeather   = "weather"
	SourceTime      = "time"
	SourceInference = "inference"
)

// apparentShare is the weight of the apparent ("feels like") temperature in the effective temperature.
const apparentShare = 0.7

var inf = math.Inf(1)

// TemperatureFamily grades the effective temperature in °C.
var TemperatureFamily = fuzzy.Family{
	Name: "temperature",
	Bands: []fuzzy.Band{
		{Name: string(features.TempExtremeCold), Lower: -inf, PeakStart: -inf, PeakEnd: -8, Upper: 0},
		{Name: string(features.TempCold), Lower: -8, PeakStart: 0, PeakEnd: 8, Upper: 18},
		{Name: string(features.TempCool), Lower: 8, PeakStart: 18, PeakEnd: 22, Upper: 27},
		{Name: string(features.TempWarm), Lower: 22, PeakStart: 27, PeakEnd: 31, Upper: 35},
		{Name: string(features.TempHot), Lower: 31, PeakStart: 35, PeakEnd: inf, Upper: inf},
	},
}

// HumidityFamily grades relative humidity in percent.
var HumidityFamily = fuzzy.Family{
	Name: "humidity",
	Bands: []fuzzy.Band{
		{Name: string(features.HumidityVeryDry), Lower: -inf, PeakStart: -inf, PeakEnd: 15, Upper: 25},
		{Name: string(features.HumidityDry), Lower: 15, PeakStart: 25, PeakEnd: 30, Upper: 40},
		{Name: string(features.HumidityComfortable), Lower: 30, PeakStart: 40, PeakEnd: 55, Upper: 65},
		{Name: string(features.HumidityHumid), Lower: 55, PeakStart: 65, PeakEnd: 75, Upper: 85},
		{Name: string(features.HumidityVeryHumid), Lower: 75, PeakStart: 85, PeakEnd: inf, Upper: inf},
	},
}

// WindFamily grades wind speed in km/h.
var WindFamily = fuzzy.Family{
	Name: "wind",
	Bands: []fuzzy.Band{
		{Name: string(features.WindCalm), Lower: -inf, PeakStart: -inf, PeakEnd: 3, Upper: 8},
		{Name: string(features.WindBreeze), Lower: 3, PeakStart: 8, PeakEnd: 15, Upper: 25},
		{Name: string(features.WindWindy), Lower: 15, PeakStart: 25, PeakEnd: 35, Upper: 45},
		{Name: string(features.WindStrong), Lower: 35, PeakStart: 45, PeakEnd: 55, Upper: 65},
		{Name: string(features.WindStorm), Lower: 55, PeakStart: 65, PeakEnd: inf, Upper: inf},
	},
}

func act(k features.Key, v float64) fuzzy.Activation {
	return fuzzy.Activation{Name: string(k), Value: v}
}

// WeatherCodes maps WMO weather interpretation codes to condition features.
// Codes outside the table are unknown and activate nothing.
var WeatherCodes = fuzzy.CodeTable{
	Name: "wmo",
	Entries: map[int][]fuzzy.Activation{
		0:  {act(features.WeatherClear, 1.0)},
		1:  {act(features.WeatherClear, 0.8), act(features.WeatherPartlyCloudy, 0.2)},
		2:  {act(features.WeatherPartlyCloudy, 1.0)},
		3:  {act(features.WeatherCloudy, 1.0)},
		45: {act(features.WeatherFog, 1.0)},
		48: {act(features.WeatherFog, 1.0)},
		51: {act(features.WeatherDrizzle, 0.6)},
		53: {act(features.WeatherDrizzle, 0.8)},
		55: {act(features.WeatherDrizzle, 1.0)},
		56: {act(features.WeatherDrizzle, 0.6)},
		57: {act(features.WeatherDrizzle, 1.0)},
		61: {act(features.WeatherRain, 0.6)},
		63: {act(features.WeatherRain, 0.8)},
		65: {act(features.WeatherRain, 1.0)},
		66: {act(features.WeatherRain, 0.6)},
		67: {act(features.WeatherRain, 1.0)},
		71: {act(features.WeatherSnow, 0.6)},
		73: {act(features.WeatherSnow, 0.8)},
		75: {act(features.WeatherSnow, 1.0)},
		77: {act(features.WeatherSnow, 1.0)},
		80: {act(features.WeatherRainShower, 0.6)},
		81: {act(features.WeatherRainShower, 0.8)},
		82: {act(features.WeatherRainShower, 1.0)},
		85: {act(features.WeatherSnowShower, 0.7)},
		86: {act(features.WeatherSnowShower, 1.0)},
		95: {act(features.WeatherThunderstorm, 1.0)},
		96: {act(features.WeatherThunderstorm, 1.0)},
		99: {act(features.WeatherThunderstorm, 1.0)},
	},
}

// EffectiveTemperature blends apparent and measured temperature. When the apparent reading is
// unknown the measured one is used alone.
func EffectiveTemperature(temp, apparent float64) float64 {
	if math.IsNaN(apparent) {
		return temp
	}
	if math.IsNaN(temp) {
		return apparent
	}
	return apparentShare*apparent + (1-apparentShare)*temp
}

// Weather produces the temp, weather, humidity and wind features for cond.
// Unknown readings leave their group at 0.0.
func Weather(cond types.Conditions) contextvec.Partial {
	values := make(map[features.Key]float64, 25)

	put := func(m map[string]float64) {
		for name, v := range m {
			values[features.Key(name)] = v
		}
	}

	put(fuzzy.Evaluate(EffectiveTemperature(cond.Temperature, cond.ApparentTemperature), TemperatureFamily))
	put(fuzzy.Evaluate(cond.Humidity, HumidityFamily))
	put(fuzzy.Evaluate(cond.WindSpeed, WindFamily))
	put(WeatherCodes.Apply(cond.WeatherCode, keyNames(features.KeysIn(features.GroupWeather))))

	return contextvec.Partial{
		Source: SourceWeather,
		Groups: []features.Group{features.GroupTemp, features.GroupWeather, features.GroupHumidity, features.GroupWind},
		Values: values,
	}
}

func keyNames(keys []features.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
