package fetch

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/jonathan/context-suggester/internal/types"
)

// DefaultWeatherURL is the Open-Meteo forecast endpoint.
const DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

// currentFields are the readings requested from the supplier.
const currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"

// openMeteoTimeLayout is the local-time format of the "current.time" field.
const openMeteoTimeLayout = "2006-01-02T15:04"

// WeatherClient reads current conditions for a coordinate.
type WeatherClient struct {
	BaseURL string
	Options *Options
}

// NewWeatherClient creates a client; an empty baseURL uses DefaultWeatherURL.
func NewWeatherClient(baseURL string, opts *Options) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &WeatherClient{BaseURL: baseURL, Options: opts}
}

// RequestURL builds the current-conditions request for a coordinate.
func (c *WeatherClient) RequestURL(latitude, longitude float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("current", currentFields)
	q.Set("wind_speed_unit", "kmh")
	q.Set("timezone", "auto")
	return c.BaseURL + "?" + q.Encode()
}

type openMeteoResponse struct {
	Timezone         string            `json:"timezone"`
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Current          *openMeteoCurrent `json:"current"`
}

type openMeteoCurrent struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature_2m"`
	RelativeHumidity    *float64 `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	WeatherCode         *int     `json:"weather_code"`
	WindSpeed           *float64 `json:"wind_speed_10m"`
}

// Current fetches the current conditions. Readings missing from the response are NaN and a
// missing weather code is types.MissingWeatherCode.
func (c *WeatherClient) Current(ctx context.Context, latitude, longitude float64) (types.Conditions, error) {
	reqURL := c.RequestURL(latitude, longitude)

	var resp openMeteoResponse
	if err := JSON(ctx, reqURL, c.Options, &resp); err != nil {
		return types.Conditions{}, err
	}
	if resp.Current == nil {
		return types.Conditions{}, &Error{URL: reqURL, Message: "response has no current conditions"}
	}

	cur := resp.Current
	cond := types.Conditions{
		Temperature:         orNaN(cur.Temperature),
		ApparentTemperature: orNaN(cur.ApparentTemperature),
		Humidity:            orNaN(cur.RelativeHumidity),
		WindSpeed:           orNaN(cur.WindSpeed),
		WeatherCode:         types.MissingWeatherCode,
		Source:              "open-meteo",
	}
	if cur.WeatherCode != nil {
		cond.WeatherCode = *cur.WeatherCode
	}

	observed, err := parseObservedAt(cur.Time, resp.Timezone, resp.UTCOffsetSeconds)
	if err != nil {
		return types.Conditions{}, &Error{URL: reqURL, Message: "invalid observation time", Cause: err}
	}
	cond.ObservedAt = observed

	return cond, nil
}

func parseObservedAt(value, timezone string, offsetSeconds int) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing time")
	}
	loc := time.FixedZone(timezone, offsetSeconds)
	return time.ParseInLocation(openMeteoTimeLayout, value, loc)
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
