package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ekaraca/dolap/internal/catalog"
	"github.com/ekaraca/dolap/internal/model"
)

// SessionHandler exposes the catalog session: profile selection, the
// category filter, and the outfit builder.
type SessionHandler struct {
	Controller *catalog.Controller
}

type selectProfileRequest struct {
	Profile model.Profile `json:"profile"`
}

type setCategoryRequest struct {
	Category model.Category `json:"category"`
}

type assignSlotRequest struct {
	ItemID string `json:"item_id"`
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Controller.Snapshot())
}

// SelectProfile handles POST /api/session/profile.
func (h *SessionHandler) SelectProfile(w http.ResponseWriter, r *http.Request) {
	var req selectProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.Controller.SelectProfile(r.Context(), req.Profile)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrBadProfile):
		jsonError(w, http.StatusBadRequest, "profile must be men or women")
		return
	default:
		// Query failures are surfaced verbatim for display in the grid.
		slog.Error("initial catalog query failed", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, snap)
}

// Back handles POST /api/session/back.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Controller.GoBack())
}

// SetCategory handles PUT /api/session/category.
func (h *SessionHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req setCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.Controller.SetCategory(r.Context(), req.Category)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNoProfile):
		jsonError(w, http.StatusConflict, "select a profile first")
		return
	case errors.Is(err, catalog.ErrBadCategory):
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	default:
		slog.Error("catalog query failed", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, snap)
}

// AssignSlot handles PUT /api/session/outfit/{slot}.
func (h *SessionHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	var req assignSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slot := catalog.Slot(r.PathValue("slot"))
	err := h.Controller.AssignSlot(r.Context(), slot, req.ItemID)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrBadSlot):
		jsonError(w, http.StatusBadRequest, "unknown outfit slot")
		return
	case errors.Is(err, catalog.ErrNoProfile):
		jsonError(w, http.StatusConflict, "select a profile first")
		return
	case errors.Is(err, catalog.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	default:
		slog.Error("failed to assign outfit slot", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to assign outfit slot")
		return
	}

	jsonResponse(w, http.StatusOK, h.Controller.Snapshot())
}

// ResetOutfit handles DELETE /api/session/outfit.
func (h *SessionHandler) ResetOutfit(w http.ResponseWriter, r *http.Request) {
	h.Controller.ResetOutfit()
	jsonResponse(w, http.StatusOK, h.Controller.Snapshot())
}
