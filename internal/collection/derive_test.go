package collection

import (
	"testing"

	"github.com/erazemk/zbirka/internal/model"
)

func TestDeriveFilter(t *testing.T) {
	items := seed()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{Status: model.FilterAll, Series: model.FilterAll, Sort: SortSet}, []string{"b", "c", "a"}},
		{"owned", Filter{Status: model.StatusOwned, Series: model.FilterAll}, []string{"a"}},
		{"for sale none", Filter{Status: model.StatusForSale, Series: model.FilterAll}, nil},
		{"series", Filter{Status: model.FilterAll, Series: "Have A Seat"}, []string{"c"}},
		{"both", Filter{Status: model.StatusSold, Series: "Have A Seat"}, nil},
	}
	for _, tt := range tests {
		got := Derive(items, tt.filter)
		if !equalIDs(got, tt.want...) {
			t.Errorf("%s: got %v, want %v", tt.name, ids(got), tt.want)
		}
	}
}

func TestDeriveSortSet(t *testing.T) {
	items := []model.Item{
		{ID: "z", Series: "Zodiac Series"},
		{ID: "b", Series: "Baby Series"},
	}
	got := Derive(items, Filter{Sort: SortSet})
	if !equalIDs(got, "b", "z") {
		t.Errorf("got %v, want Baby before Zodiac", ids(got))
	}
	// Input is untouched.
	if items[0].ID != "z" {
		t.Error("Derive reordered its input")
	}
}

func TestDeriveSortPrice(t *testing.T) {
	items := []model.Item{
		{ID: "cheap", PurchasePrice: price("5")},
		{ID: "tie1", PurchasePrice: price("20")},
		{ID: "dear", PurchasePrice: price("99.99")},
		{ID: "tie2", PurchasePrice: price("20.00")},
	}
	got := Derive(items, Filter{Sort: SortPrice})
	if !equalIDs(got, "dear", "tie1", "tie2", "cheap") {
		t.Errorf("got %v", ids(got))
	}
}

func TestDeriveSortProfit(t *testing.T) {
	items := []model.Item{
		{ID: "owned", PurchasePrice: price("1"), SellPrice: sold("100"), Status: model.StatusOwned},
		{ID: "loss", PurchasePrice: price("30"), SellPrice: sold("20"), Status: model.StatusSold},
		{ID: "nosell", PurchasePrice: price("5"), Status: model.StatusSold},
		{ID: "gain", PurchasePrice: price("10"), SellPrice: sold("25"), Status: model.StatusSold},
		{ID: "wish", PurchasePrice: price("8"), Status: model.StatusWishlist},
	}
	got := Derive(items, Filter{Sort: SortProfit})
	if !equalIDs(got, "gain", "loss", "owned", "nosell", "wish") {
		t.Errorf("got %v", ids(got))
	}
}

func TestDeriveSortProfitSubCent(t *testing.T) {
	// Both profits display as $10.00 but are not equal.
	items := []model.Item{
		{ID: "lower", PurchasePrice: price("10"), SellPrice: sold("20.001"), Status: model.StatusSold},
		{ID: "higher", PurchasePrice: price("10"), SellPrice: sold("20.004"), Status: model.StatusSold},
	}
	got := Derive(items, Filter{Sort: SortProfit})
	if !equalIDs(got, "higher", "lower") {
		t.Errorf("got %v, want exact profit order", ids(got))
	}
}

func TestDeriveEmpty(t *testing.T) {
	if got := Derive(nil, DefaultFilter()); len(got) != 0 {
		t.Errorf("Derive(nil) = %v", got)
	}
}
