package web

import (
	"net/http"
	"strings"

	"github.com/erazemk/zbirka/internal/model"
)

// parseNewItem reads and validates the add-item form.
func parseNewItem(r *http.Request) (model.NewItem, error) {
	n := model.NewItem{
		Character: strings.TrimSpace(r.FormValue("character")),
		Series:    strings.TrimSpace(r.FormValue("series")),
		Item:      strings.TrimSpace(r.FormValue("item")),
		Image:     strings.TrimSpace(r.FormValue("image")),
		Status:    r.FormValue("status"),
		Notes:     strings.TrimSpace(r.FormValue("notes")),
	}
	if n.Status == "" {
		n.Status = model.StatusOwned
	}

	if strings.TrimSpace(r.FormValue("purchase_price")) == "" {
		return n, model.Invalid("purchase price required")
	}
	var err error
	if n.PurchasePrice, err = model.ParsePrice("purchase price", r.FormValue("purchase_price")); err != nil {
		return n, err
	}
	if n.SellPrice, err = model.ParseSellPrice(r.FormValue("sell_price")); err != nil {
		return n, err
	}
	return n, n.Validate()
}

// parsePatch reads the edit form and returns only the fields that differ
// from cur.
func parsePatch(r *http.Request, cur model.Item) (model.ItemPatch, error) {
	var p model.ItemPatch

	setString := func(dst **string, field, current string) {
		v := strings.TrimSpace(r.FormValue(field))
		if v != current {
			*dst = &v
		}
	}
	setString(&p.Character, "character", cur.Character)
	setString(&p.Series, "series", cur.Series)
	setString(&p.Item, "item", cur.Item)
	setString(&p.Image, "image", cur.Image)
	setString(&p.Notes, "notes", cur.Notes)

	if status := r.FormValue("status"); status != cur.Status {
		p.Status = &status
	}

	purchase, err := model.ParsePrice("purchase price", r.FormValue("purchase_price"))
	if err != nil {
		return p, err
	}
	if !purchase.Equal(cur.PurchasePrice) {
		p.PurchasePrice = &purchase
	}

	sell, err := model.ParseSellPrice(r.FormValue("sell_price"))
	if err != nil {
		return p, err
	}
	if sell.Valid != cur.SellPrice.Valid || (sell.Valid && !sell.Decimal.Equal(cur.SellPrice.Decimal)) {
		p.SellPrice = &sell
	}

	return p, p.Validate()
}
