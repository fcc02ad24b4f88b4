package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item is one collectible record owned by a user.
type Item struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	Character     string              `json:"character"`
	Series        string              `json:"series"`
	Item          string              `json:"item"`
	PurchasePrice decimal.Decimal     `json:"purchasePrice"`
	SellPrice     decimal.NullDecimal `json:"sellPrice"`
	Image         string              `json:"image,omitempty"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
	DateAdded     time.Time           `json:"dateAdded"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// Item statuses.
const (
	StatusOwned    = "Owned"
	StatusWishlist = "Wishlist"
	StatusForSale  = "For Sale"
	StatusSold     = "Sold"
)

// Statuses lists every status in display order.
var Statuses = []string{StatusOwned, StatusWishlist, StatusForSale, StatusSold}

// FilterAll matches every status or series.
const FilterAll = "All"

// ValidStatus reports whether s is one of the four item statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOwned, StatusWishlist, StatusForSale, StatusSold:
		return true
	}
	return false
}

// Sold reports whether the item is sold with a recorded sell price.
func (it Item) Sold() bool {
	return it.Status == StatusSold && it.SellPrice.Valid
}

// NewItem holds the client-supplied fields of an item; the store assigns the rest.
type NewItem struct {
	Character     string              `json:"character"`
	Series        string              `json:"series"`
	Item          string              `json:"item"`
	PurchasePrice decimal.Decimal     `json:"purchasePrice"`
	SellPrice     decimal.NullDecimal `json:"sellPrice"`
	Image         string              `json:"image,omitempty"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
}

// Validate checks required fields and price signs.
func (n NewItem) Validate() error {
	switch {
	case strings.TrimSpace(n.Character) == "":
		return Invalid("character required")
	case strings.TrimSpace(n.Series) == "":
		return Invalid("series required")
	case strings.TrimSpace(n.Item) == "":
		return Invalid("item required")
	case !ValidStatus(n.Status):
		return Invalid("invalid status %q", n.Status)
	case n.PurchasePrice.IsNegative():
		return Invalid("purchase price must not be negative")
	case n.SellPrice.Valid && n.SellPrice.Decimal.IsNegative():
		return Invalid("sell price must not be negative")
	}
	return nil
}

// ItemPatch is a sparse update. Nil fields are left untouched; a set field is
// written even when it holds the zero value.
type ItemPatch struct {
	Character     *string
	Series        *string
	Item          *string
	PurchasePrice *decimal.Decimal
	SellPrice     *decimal.NullDecimal
	Image         *string
	Status        *string
	Notes         *string
}

// Empty reports whether the patch sets no field.
func (p ItemPatch) Empty() bool {
	return p.Character == nil && p.Series == nil && p.Item == nil &&
		p.PurchasePrice == nil && p.SellPrice == nil && p.Image == nil &&
		p.Status == nil && p.Notes == nil
}

// Validate checks the fields the patch sets.
func (p ItemPatch) Validate() error {
	if p.Status != nil && !ValidStatus(*p.Status) {
		return Invalid("invalid status %q", *p.Status)
	}
	if p.PurchasePrice != nil && p.PurchasePrice.IsNegative() {
		return Invalid("purchase price must not be negative")
	}
	if p.SellPrice != nil && p.SellPrice.Valid && p.SellPrice.Decimal.IsNegative() {
		return Invalid("sell price must not be negative")
	}
	return nil
}

// Apply returns a copy of it with the patch merged in.
func (p ItemPatch) Apply(it Item) Item {
	if p.Character != nil {
		it.Character = *p.Character
	}
	if p.Series != nil {
		it.Series = *p.Series
	}
	if p.Item != nil {
		it.Item = *p.Item
	}
	if p.PurchasePrice != nil {
		it.PurchasePrice = *p.PurchasePrice
	}
	if p.SellPrice != nil {
		it.SellPrice = *p.SellPrice
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	return it
}

// ParsePrice reads a user-entered amount such as "27.50" or "$27.50".
func ParsePrice(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, Invalid("%s must be a number", field)
	}
	return d, nil
}

// ParseSellPrice reads an optional sell price; blank input means no price.
func ParseSellPrice(raw string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParsePrice("sell price", raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
