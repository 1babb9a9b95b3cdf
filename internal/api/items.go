package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ekaraca/dolap/internal/catalog"
	"github.com/ekaraca/dolap/internal/imaging"
	"github.com/ekaraca/dolap/internal/model"
	"github.com/ekaraca/dolap/internal/store"
)

// ItemsHandler handles item endpoints: the stateless catalog query
// surface plus the add and delete mutations, which go through the
// session controller so the active grid refreshes.
type ItemsHandler struct {
	DB         *sql.DB
	Controller *catalog.Controller
}

// List handles GET /api/items?profile=men&category=top. It is the pure
// query surface: filter in, ordered snapshot out.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	profile := model.Profile(r.URL.Query().Get("profile"))
	if !profile.Valid() {
		jsonError(w, http.StatusBadRequest, "profile must be men or women")
		return
	}

	category := model.Category(r.URL.Query().Get("category"))
	if category == "" {
		category = model.CategoryAll
	}
	if category != model.CategoryAll && !category.Valid() {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	}

	items, err := store.QueryItems(r.Context(), h.DB, model.Filter{Profile: profile, Category: category})
	if err != nil {
		// Raw message included for diagnosability (e.g. a missing index).
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items: a multipart form with an image file
// and a category. The photo is transcoded before anything is persisted;
// any failure aborts the add with nothing written.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	// Limit the raw upload to 10 MB; the transcoder enforces the much
	// tighter ceiling on the stored payload.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	category := model.Category(r.FormValue("category"))

	item, err := h.Controller.AddItem(r.Context(), category, file)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNoProfile):
		jsonError(w, http.StatusConflict, "select a profile before adding items")
		return
	case errors.Is(err, catalog.ErrBadCategory):
		jsonError(w, http.StatusBadRequest, "unknown category")
		return
	case errors.Is(err, imaging.ErrDecode):
		jsonError(w, http.StatusBadRequest, "the file is not a readable image")
		return
	case errors.Is(err, imaging.ErrOversize):
		jsonError(w, http.StatusRequestEntityTooLarge, "the photo is too large even after compression")
		return
	default:
		slog.Error("failed to add item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Delete handles DELETE /api/items/{id}?confirm=true. The confirm
// parameter is the explicit yes/no gate: without it the store delete is
// never issued.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	confirmed := r.URL.Query().Get("confirm") == "true"

	err := h.Controller.DeleteItem(r.Context(), id, confirmed)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotConfirmed):
		jsonError(w, http.StatusBadRequest, "delete requires confirm=true")
		return
	case errors.Is(err, catalog.ErrNoProfile):
		jsonError(w, http.StatusConflict, "select a profile before deleting items")
		return
	default:
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// GetImage handles GET /api/items/{id}/image, serving the stored
// payload as raw bytes.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	mime, data, err := imaging.DecodeDataURL(item.Image)
	if err != nil {
		slog.Error("stored payload is not a valid data URL", "item", item.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "corrupt image payload")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
