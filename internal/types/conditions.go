// Package types provides type definitions for structured data used throughout the suggestion engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"math"
	"time"
)

// MissingWeatherCode marks an absent condition code.
const MissingWeatherCode = -1

// Conditions holds the current weather readings. A NaN reading is unknown.
type Conditions struct {
	Temperature         float64   `json:"temperature_c"`
	ApparentTemperature float64   `json:"apparent_temperature_c"`
	Humidity            float64   `json:"relative_humidity"`
	WindSpeed           float64   `json:"wind_speed_kmh"`
	WeatherCode         int       `json:"weather_code"`
	ObservedAt          time.Time `json:"observed_at"`
	Source              string    `json:"source"`
	Degraded            bool      `json:"degraded"`
}

// DegradedConditions returns the documented stand-in readings used when the weather supplier is
// unreachable and degraded mode is allowed: 20°C, 50% humidity, 5 km/h wind, clear sky.
func DegradedConditions(now time.Time) Conditions {
	return Conditions{
		Temperature:         20,
		ApparentTemperature: 20,
		Humidity:            50,
		WindSpeed:           5,
		WeatherCode:         0,
		ObservedAt:          now,
		Source:              "degraded-default",
		Degraded:            true,
	}
}

// MarshalJSON writes unknown (NaN) readings as null.
func (c Conditions) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Temperature         *float64  `json:"temperature_c"`
		ApparentTemperature *float64  `json:"apparent_temperature_c"`
		Humidity            *float64  `json:"relative_humidity"`
		WindSpeed           *float64  `json:"wind_speed_kmh"`
		WeatherCode         int       `json:"weather_code"`
		ObservedAt          time.Time `json:"observed_at"`
		Source              string    `json:"source"`
		Degraded            bool      `json:"degraded"`
	}{
		Temperature:         finiteOrNil(c.Temperature),
		ApparentTemperature: finiteOrNil(c.ApparentTemperature),
		Humidity:            finiteOrNil(c.Humidity),
		WindSpeed:           finiteOrNil(c.WindSpeed),
		WeatherCode:         c.WeatherCode,
		ObservedAt:          c.ObservedAt,
		Source:              c.Source,
		Degraded:            c.Degraded,
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
