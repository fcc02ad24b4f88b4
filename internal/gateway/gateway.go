// Package gateway persists collection items for a signed-in user, either
// through the JSON API (Remote) or directly against the store (Local).
// Both translate between model.Item and the backend's store.ItemRow.
package gateway

import (
	"errors"
	"fmt"

	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

var (
	// ErrNotAuthenticated is returned when no session is present.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrBackend wraps failures reported by the backend.
	ErrBackend = errors.New("backend error")
)

func backendError(msg string) error {
	return fmt.Errorf("%w: %s", ErrBackend, msg)
}

// toItem maps a backend row to the domain model.
func toItem(r store.ItemRow) model.Item {
	return model.Item{
		ID:            r.ID,
		UserID:        r.UserID,
		Character:     r.Character,
		Series:        r.Series,
		Item:          r.Item,
		PurchasePrice: r.PurchasePrice,
		SellPrice:     r.SellPrice,
		Image:         r.Image,
		Status:        r.Status,
		Notes:         r.Notes,
		DateAdded:     r.DateAdded,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toItems(rows []store.ItemRow) []model.Item {
	items := make([]model.Item, len(rows))
	for i, r := range rows {
		items[i] = toItem(r)
	}
	return items
}

// newRow maps a new item to a backend row. An empty image is filled in from
// the catalog.
func newRow(cat *catalog.Data, userID string, n model.NewItem) store.ItemRow {
	image := n.Image
	if image == "" && cat != nil {
		image = cat.ImageFor(n.Series, n.Item)
	}
	return store.ItemRow{
		UserID:        userID,
		Character:     n.Character,
		Series:        n.Series,
		Item:          n.Item,
		PurchasePrice: n.PurchasePrice,
		SellPrice:     n.SellPrice,
		Image:         image,
		Status:        n.Status,
		Notes:         n.Notes,
	}
}

// rowFields maps the set fields of a patch to backend columns.
func rowFields(p model.ItemPatch) store.Fields {
	f := store.Fields{}
	if p.Character != nil {
		f["character"] = *p.Character
	}
	if p.Series != nil {
		f["series"] = *p.Series
	}
	if p.Item != nil {
		f["item"] = *p.Item
	}
	if p.PurchasePrice != nil {
		f["purchase_price"] = *p.PurchasePrice
	}
	if p.SellPrice != nil {
		f["sell_price"] = *p.SellPrice
	}
	if p.Image != nil {
		f["image"] = *p.Image
	}
	if p.Status != nil {
		f["status"] = *p.Status
	}
	if p.Notes != nil {
		f["notes"] = *p.Notes
	}
	return f
}
