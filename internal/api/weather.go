package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ekaraca/dolap/internal/metrics"
	"github.com/ekaraca/dolap/internal/weather"
)

// WeatherHandler serves the weather widget: one read-only forecast call
// for the resolved (or fallback) coordinate.
type WeatherHandler struct {
	Client   *weather.Client
	Locator  weather.Locator
	Fallback weather.Coordinate
	Wait     time.Duration
}

type weatherResponse struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
	ConditionCode      int     `json:"condition_code"`
	Icon               string  `json:"icon"`
}

// Get handles GET /api/weather.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	coord, err := weather.Resolve(r.Context(), h.Locator, h.Fallback, h.Wait)
	if err != nil {
		// Never fatal: the fallback coordinate is used instead.
		slog.Warn("geolocation unavailable, using fallback coordinate", "error", err)
	}

	report, err := h.Client.Current(r.Context(), coord)
	metrics.WeatherLookup(err)
	if err != nil {
		slog.Error("weather lookup failed", "error", err)
		jsonError(w, http.StatusBadGateway, "weather unavailable")
		return
	}

	jsonResponse(w, http.StatusOK, weatherResponse{
		TemperatureCelsius: report.TemperatureCelsius,
		ConditionCode:      report.ConditionCode,
		Icon:               weather.Icon(report.ConditionCode),
	})
}
