package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/imaging"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

type itemPage struct {
	PageData
	Item     model.Item
	Statuses []string
	Catalog  *catalog.Data
}

// ItemEditPage handles GET /items/{id}.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		slog.Error("failed to load collection", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	item, ok := c.Item(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.Templates.Render(w, "item_edit.html", &itemPage{
		PageData: s.page(w, r, "Edit "+item.Item),
		Item:     item,
		Statuses: model.Statuses,
		Catalog:  catalog.Get(),
	})
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id := r.PathValue("id")
	back := "/items/" + id

	c, err := s.controller(r)
	if err != nil {
		slog.Error("failed to load collection", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	cur, ok := c.Item(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	patch, err := parsePatch(r, cur)
	if err == nil {
		next := patch.Apply(cur)
		err = catalog.Get().ValidateSelection(next.Character, next.Series, next.Item)
	}
	if err != nil {
		flashError(w, userMessage(err, "Please check the item details."))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if patch.Empty() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := c.Update(r.Context(), id, patch); err != nil {
		slog.Error("failed to update item", "user", session.UserID, "item", id, "error", err)
		flashError(w, "Could not save your changes.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	slog.Info("item updated", "user", session.UserID, "item", id)
	flashSuccess(w, "Item updated.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id := r.PathValue("id")

	c, err := s.controller(r)
	if err != nil {
		slog.Error("failed to load collection", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := c.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete item", "user", session.UserID, "item", id, "error", err)
		flashError(w, "Could not delete the item.")
	} else {
		slog.Info("item deleted", "user", session.UserID, "item", id)
		flashSuccess(w, "Item deleted.")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())
	id := r.PathValue("id")
	back := "/items/" + id

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUpload+1<<20)
	file, _, err := r.FormFile("image")
	if err != nil {
		flashError(w, "Choose a JPEG or PNG photo under 5 MB.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer file.Close()

	card, err := imaging.Process(file)
	if err != nil {
		slog.Warn("rejected item photo", "user", session.UserID, "error", err)
		flashError(w, "Choose a JPEG or PNG photo under 5 MB.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	found, err := store.SetItemImage(r.Context(), s.DB, session.UserID, id, card.Data, card.MIME)
	if err != nil {
		slog.Error("failed to save item photo", "error", err)
		flashError(w, "Could not save the photo.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	flashSuccess(w, "Photo uploaded.")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	data, mime, err := store.GetItemImage(r.Context(), s.DB, session.UserID, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
