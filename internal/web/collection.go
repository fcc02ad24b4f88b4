package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/collection"
	"github.com/erazemk/zbirka/internal/gateway"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/stats"
)

type collectionPage struct {
	PageData
	Items         []model.Item
	Total         int
	Stats         stats.Summary
	ShowStats     bool
	Filter        collection.Filter
	Statuses      []string
	SeriesOptions []string
	SortKeys      []string
	Catalog       *catalog.Data
}

// controller loads the signed-in user's collection.
func (s *Server) controller(r *http.Request) (*collection.Controller, error) {
	c := collection.New(gateway.NewLocal(s.DB, GetSession(r.Context())))
	if err := c.Load(r.Context()); err != nil {
		return nil, err
	}
	return c, nil
}

// userMessage returns the text shown to the user for a failed operation.
func userMessage(err error, fallback string) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return capitalize(verr.Msg) + "."
	}
	return fallback
}

// Dashboard handles GET /, the collection page.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := &collectionPage{
		PageData: s.page(w, r, "My Collection"),
		Statuses: model.Statuses,
		SortKeys: collection.SortKeys,
		Catalog:  catalog.Get(),
	}

	c, err := s.controller(r)
	if err != nil {
		slog.Error("failed to load collection", "error", err)
		data.Flash = &Flash{Kind: "error", Message: "Could not load your collection."}
		data.Filter = collection.DefaultFilter()
		s.Templates.Render(w, "collection.html", data)
		return
	}

	q := r.URL.Query()
	c.SetFilter(collection.Filter{
		Status: q.Get("status"),
		Series: q.Get("series"),
		Sort:   q.Get("sort"),
	})

	data.Items = c.Visible()
	data.Total = len(c.Items())
	data.Stats = c.Stats()
	data.ShowStats = q.Get("stats") == "1"
	data.Filter = c.Filter()
	data.SeriesOptions = c.SeriesOptions()

	s.Templates.Render(w, "collection.html", data)
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	n, err := parseNewItem(r)
	if err == nil {
		err = catalog.Get().ValidateSelection(n.Character, n.Series, n.Item)
	}
	if err != nil {
		flashError(w, userMessage(err, "Please check the item details."))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	c := collection.New(gateway.NewLocal(s.DB, session))
	item, err := c.Add(r.Context(), n)
	if err != nil {
		slog.Error("failed to add item", "user", session.UserID, "error", err)
		flashError(w, "Could not add the item.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("item added", "user", session.UserID, "item", item.ID, "series", item.Series)
	flashSuccess(w, item.Item+" added to your collection.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
