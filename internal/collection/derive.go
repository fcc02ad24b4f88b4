package collection

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/model"
)

// Sort keys.
const (
	SortSet    = "set"
	SortPrice  = "price"
	SortProfit = "profit"
)

// SortKeys lists the sort keys in display order.
var SortKeys = []string{SortSet, SortPrice, SortProfit}

// Filter selects and orders the visible items.
type Filter struct {
	Status string
	Series string
	Sort   string
}

// DefaultFilter shows everything sorted by set.
func DefaultFilter() Filter {
	return Filter{Status: model.FilterAll, Series: model.FilterAll, Sort: SortSet}
}

func (f Filter) normalize() Filter {
	if f.Status == "" {
		f.Status = model.FilterAll
	}
	if f.Series == "" {
		f.Series = model.FilterAll
	}
	if !slices.Contains(SortKeys, f.Sort) {
		f.Sort = SortSet
	}
	return f
}

// Derive applies f to items. It never modifies items and keeps list order
// between items that compare equal.
func Derive(items []model.Item, f Filter) []model.Item {
	f = f.normalize()

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if f.Status != model.FilterAll && it.Status != f.Status {
			continue
		}
		if f.Series != model.FilterAll && it.Series != f.Series {
			continue
		}
		out = append(out, it)
	}

	switch f.Sort {
	case SortSet:
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return strings.Compare(a.Series, b.Series)
		})
	case SortPrice:
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return b.PurchasePrice.Cmp(a.PurchasePrice)
		})
	case SortProfit:
		slices.SortStableFunc(out, compareProfit)
	}
	return out
}

// compareProfit orders by exact profit descending with unsold items last.
func compareProfit(a, b model.Item) int {
	switch okA, okB := a.Sold(), b.Sold(); {
	case okA && okB:
		return profit(b).Cmp(profit(a))
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

func profit(it model.Item) decimal.Decimal {
	return it.SellPrice.Decimal.Sub(it.PurchasePrice)
}
