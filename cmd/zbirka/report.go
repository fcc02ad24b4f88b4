package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/stats"
)

// styleFlag selects the glamour style terminal output is rendered with.
type styleFlag struct {
	style string
}

func (s *styleFlag) register(f *flag.FlagSet) {
	f.StringVar(&s.style, "style", "auto", "output style: auto, dark, light, notty or ascii")
}

func (s *styleFlag) render(md string) (string, error) {
	style := glamour.WithAutoStyle()
	if s.style != "" && s.style != "auto" {
		style = glamour.WithStandardStyle(s.style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering output: %w", err)
	}
	return out, nil
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// itemsMarkdown lays items out as a markdown table in the given order.
func itemsMarkdown(items []model.Item) string {
	if len(items) == 0 {
		return "_No items match._\n"
	}

	var b strings.Builder
	b.WriteString("| Character | Series | Item | Status | Paid | Sold for | Profit | ID |\n")
	b.WriteString("|---|---|---|---|--:|--:|--:|---|\n")
	for _, it := range items {
		sold, profit := "-", "-"
		if it.SellPrice.Valid {
			sold = stats.FormatUSD(it.SellPrice.Decimal)
		}
		if p, ok := stats.ItemProfit(it); ok {
			profit = stats.FormatSignedUSD(p)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | `%s` |\n",
			cell(it.Character), cell(it.Series), cell(it.Item), it.Status,
			stats.FormatUSD(it.PurchasePrice), sold, profit, it.ID)
	}
	fmt.Fprintf(&b, "\n%d item(s)\n", len(items))
	return b.String()
}

// statsMarkdown renders the collection summary.
func statsMarkdown(s stats.Summary) string {
	var b strings.Builder
	b.WriteString("# Collection\n\n")
	b.WriteString("| | |\n|---|--:|\n")
	fmt.Fprintf(&b, "| Total items | %d |\n", s.TotalItems)
	fmt.Fprintf(&b, "| Total spent | %s |\n", stats.FormatUSD(s.TotalSpent))
	fmt.Fprintf(&b, "| Total earned | %s |\n", stats.FormatUSD(s.TotalEarned))
	fmt.Fprintf(&b, "| Net profit | %s |\n", stats.FormatSignedUSD(s.NetProfit))
	b.WriteString("\n## By status\n\n")
	b.WriteString("| Status | Items |\n|---|--:|\n")
	fmt.Fprintf(&b, "| %s | %d |\n", model.StatusOwned, s.Owned)
	fmt.Fprintf(&b, "| %s | %d |\n", model.StatusWishlist, s.Wishlist)
	fmt.Fprintf(&b, "| %s | %d |\n", model.StatusForSale, s.ForSale)
	fmt.Fprintf(&b, "| %s | %d |\n", model.StatusSold, s.Sold)
	return b.String()
}
