// Package weather reads current conditions from an Open-Meteo-compatible
// provider. The lookup is a single read-only call, independent of the
// catalog: failures here never affect anything else.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrLocation marks a failed or timed-out geolocation attempt. Callers
// fall back to a default coordinate; it is never fatal.
var ErrLocation = errors.New("location unavailable")

// DefaultCoordinate is the fixed fallback when no location can be
// resolved (Istanbul).
var DefaultCoordinate = Coordinate{Latitude: 41.0082, Longitude: 28.9784}

// Coordinate is a geographic point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Report holds current conditions for one coordinate.
type Report struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
	ConditionCode      int     `json:"condition_code"`
}

// Locator resolves the user's coordinate, e.g. from a geolocation
// service. Implementations should honor the context deadline.
type Locator interface {
	Locate(ctx context.Context) (Coordinate, error)
}

// Resolve attempts geolocation with a bounded wait and falls back to
// the given coordinate on any failure. A nil locator skips straight to
// the fallback.
func Resolve(ctx context.Context, loc Locator, fallback Coordinate, wait time.Duration) (Coordinate, error) {
	if loc == nil {
		return fallback, nil
	}

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	coord, err := loc.Locate(ctx)
	if err != nil {
		return fallback, fmt.Errorf("%w: %v", ErrLocation, err)
	}
	return coord, nil
}

// Client reads current conditions over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the given provider base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// currentWeatherResponse mirrors the provider's wire format.
type currentWeatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current performs the one-shot forecast read for a coordinate.
func (c *Client) Current(ctx context.Context, coord Coordinate) (*Report, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', 4, 64))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building forecast request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request failed: %s", resp.Status)
	}

	var body currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding forecast response: %w", err)
	}

	return &Report{
		TemperatureCelsius: body.CurrentWeather.Temperature,
		ConditionCode:      body.CurrentWeather.WeatherCode,
	}, nil
}

// Icon maps a WMO condition code to a display icon name using fixed
// thresholds.
func Icon(code int) string {
	switch {
	case code <= 3:
		return "clear"
	case code <= 45:
		return "cloudy"
	case code <= 50:
		return "fog"
	case code <= 70:
		return "rain"
	case code <= 95:
		return "snow"
	default:
		return "storm"
	}
}
