package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ekaraca/dolap/internal/catalog"
	"github.com/ekaraca/dolap/internal/weather"
)

// WeatherConfig wires the weather widget's collaborators.
type WeatherConfig struct {
	Client   *weather.Client
	Locator  weather.Locator
	Fallback weather.Coordinate
	Wait     time.Duration
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, controller *catalog.Controller, wcfg WeatherConfig) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db, Controller: controller}
	sessionHandler := &SessionHandler{Controller: controller}
	weatherHandler := &WeatherHandler{
		Client:   wcfg.Client,
		Locator:  wcfg.Locator,
		Fallback: wcfg.Fallback,
		Wait:     wcfg.Wait,
	}

	// Session: profile picker, category chips, outfit builder.
	mux.HandleFunc("GET /api/session", sessionHandler.Get)
	mux.HandleFunc("POST /api/session/profile", sessionHandler.SelectProfile)
	mux.HandleFunc("POST /api/session/back", sessionHandler.Back)
	mux.HandleFunc("PUT /api/session/category", sessionHandler.SetCategory)
	mux.HandleFunc("PUT /api/session/outfit/{slot}", sessionHandler.AssignSlot)
	mux.HandleFunc("DELETE /api/session/outfit", sessionHandler.ResetOutfit)

	// Items: query surface and mutations.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)

	// Weather widget.
	mux.HandleFunc("GET /api/weather", weatherHandler.Get)

	return mux
}
