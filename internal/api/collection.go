package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/imaging"
	"github.com/erazemk/zbirka/internal/store"
)

// CollectionHandler handles the collection_items endpoints. Rows are scoped
// to the signed-in user; storage constraints are the only validation.
type CollectionHandler struct {
	DB *sql.DB
}

// List handles GET /api/collection_items.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	items, err := store.ListItems(r.Context(), h.DB, session.UserID)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []store.ItemRow{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/collection_items. Any id, owner or timestamps in
// the body are ignored.
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	var req store.ItemRow
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = session.UserID

	item, err := store.CreateItem(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("item added", "user", session.UserID, "item", item.ID, "series", item.Series)
	jsonResponse(w, http.StatusCreated, item)
}

// decodeFields converts a sparse JSON body into typed column values.
func decodeFields(body map[string]json.RawMessage) (store.Fields, error) {
	fields := store.Fields{}
	for col, raw := range body {
		if !store.Updatable[col] {
			return nil, fmt.Errorf("column %q cannot be updated", col)
		}

		switch col {
		case "purchase_price":
			var d decimal.Decimal
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", col, err)
			}
			fields[col] = d
		case "sell_price":
			var d decimal.NullDecimal
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", col, err)
			}
			fields[col] = d
		default:
			var s *string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", col, err)
			}
			if s == nil {
				fields[col] = ""
			} else {
				fields[col] = *s
			}
		}
	}
	return fields, nil
}

// Update handles PATCH /api/collection_items/{id}. Only the columns present
// in the body are written.
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id := r.PathValue("id")

	var body map[string]json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields, err := decodeFields(body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := store.UpdateItem(r.Context(), h.DB, session.UserID, id, fields)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, session.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	slog.Info("item updated", "user", session.UserID, "item", id, "fields", len(fields))
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/collection_items/{id}.
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id := r.PathValue("id")

	found, err := store.DeleteItem(r.Context(), h.DB, session.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	slog.Info("item deleted", "user", session.UserID, "item", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/collection_items/{id}/image.
func (h *CollectionHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUpload+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUpload); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	card, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := store.SetItemImage(r.Context(), h.DB, session.UserID, id, card.Data, card.MIME)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, session.UserID, id)
	if err != nil {
		slog.Error("failed to get item after image upload", "item", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /api/collection_items/{id}/image.
func (h *CollectionHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	data, mime, err := store.GetItemImage(r.Context(), h.DB, session.UserID, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write image", "item", r.PathValue("id"), "error", err)
	}
}
