// Package stats computes spend and profit figures over a collection.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/model"
)

// Summary aggregates a whole collection.
type Summary struct {
	TotalItems  int
	TotalSpent  decimal.Decimal
	TotalEarned decimal.Decimal
	NetProfit   decimal.Decimal
	Owned       int
	Wishlist    int
	ForSale     int
	Sold        int
}

// Compute summarizes items. A Sold item without a sell price counts its
// purchase price against NetProfit.
func Compute(items []model.Item) Summary {
	s := Summary{
		TotalItems:  len(items),
		TotalSpent:  decimal.Zero,
		TotalEarned: decimal.Zero,
	}
	soldCost := decimal.Zero

	for _, it := range items {
		s.TotalSpent = s.TotalSpent.Add(it.PurchasePrice)

		switch it.Status {
		case model.StatusOwned:
			s.Owned++
		case model.StatusWishlist:
			s.Wishlist++
		case model.StatusForSale:
			s.ForSale++
		case model.StatusSold:
			s.Sold++
			soldCost = soldCost.Add(it.PurchasePrice)
			if it.SellPrice.Valid {
				s.TotalEarned = s.TotalEarned.Add(it.SellPrice.Decimal)
			}
		}
	}

	s.NetProfit = s.TotalEarned.Sub(soldCost)
	return s
}

// ItemProfit returns sell minus purchase price rounded to cents, for Sold
// items with a sell price only.
func ItemProfit(it model.Item) (decimal.Decimal, bool) {
	if !it.Sold() {
		return decimal.Decimal{}, false
	}
	return it.SellPrice.Decimal.Sub(it.PurchasePrice).Round(2), true
}
