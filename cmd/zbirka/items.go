package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/collection"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/stats"
)

type listCmd struct {
	serverFlag
	styleFlag
	status string
	series string
	sort   string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the collection" }
func (*listCmd) Usage() string {
	return `list [-status <status>] [-series <series>] [-sort set|price|profit]

  Status is one of Owned, Wishlist, "For Sale", Sold or All.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.serverFlag.register(f)
	c.styleFlag.register(f)
	f.StringVar(&c.status, "status", model.FilterAll, "only items with this status")
	f.StringVar(&c.series, "series", model.FilterAll, "only items of this series")
	f.StringVar(&c.sort, "sort", collection.SortSet, "sort order: "+strings.Join(collection.SortKeys, ", "))
}

func (c *listCmd) filter() (collection.Filter, error) {
	if c.status != model.FilterAll && !model.ValidStatus(c.status) {
		return collection.Filter{}, model.Invalid("unknown status %q", c.status)
	}
	if !slices.Contains(collection.SortKeys, c.sort) {
		return collection.Filter{}, model.Invalid("unknown sort %q", c.sort)
	}
	return collection.Filter{Status: c.status, Series: c.series, Sort: c.sort}, nil
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		return fail(err)
	}
	ctl, _, err := c.signedIn()
	if err != nil {
		return fail(err)
	}
	if err := ctl.Load(ctx); err != nil {
		return fail(err)
	}
	ctl.SetFilter(filter)

	out, err := c.render(itemsMarkdown(ctl.Visible()))
	if err != nil {
		return fail(err)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

type statsCmd struct {
	serverFlag
	styleFlag
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show spend and profit totals" }
func (*statsCmd) Usage() string    { return "stats [-server <url>] [-style <style>]\n" }

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	c.serverFlag.register(f)
	c.styleFlag.register(f)
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctl, _, err := c.signedIn()
	if err != nil {
		return fail(err)
	}
	if err := ctl.Load(ctx); err != nil {
		return fail(err)
	}
	out, err := c.render(statsMarkdown(ctl.Stats()))
	if err != nil {
		return fail(err)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

type addCmd struct {
	serverFlag
	character string
	series    string
	item      string
	price     string
	sell      string
	status    string
	image     string
	notes     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a catalog item to the collection" }
func (*addCmd) Usage() string {
	return `add -character <name> -series <name> -item <name> -price <amount> [flags]

  The character, series and item must be in the catalog; see 'zbirka catalog'.
  The image defaults to the catalog image of the item.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.character, "character", "", "character name")
	f.StringVar(&c.series, "series", "", "series name")
	f.StringVar(&c.item, "item", "", "item name")
	f.StringVar(&c.price, "price", "", "purchase price")
	f.StringVar(&c.sell, "sell", "", "sell price")
	f.StringVar(&c.status, "status", model.StatusOwned, "Owned, Wishlist, \"For Sale\" or Sold")
	f.StringVar(&c.image, "image", "", "image URL")
	f.StringVar(&c.notes, "notes", "", "free-form notes")
}

func (c *addCmd) newItem() (model.NewItem, error) {
	n := model.NewItem{
		Character: strings.TrimSpace(c.character),
		Series:    strings.TrimSpace(c.series),
		Item:      strings.TrimSpace(c.item),
		Image:     strings.TrimSpace(c.image),
		Status:    c.status,
		Notes:     strings.TrimSpace(c.notes),
	}
	if strings.TrimSpace(c.price) == "" {
		return n, model.Invalid("purchase price required")
	}
	var err error
	if n.PurchasePrice, err = model.ParsePrice("purchase price", c.price); err != nil {
		return n, err
	}
	if n.SellPrice, err = model.ParseSellPrice(c.sell); err != nil {
		return n, err
	}
	return n, n.Validate()
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	n, err := c.newItem()
	if err != nil {
		return fail(err)
	}
	ctl, _, err := c.signedIn()
	if err != nil {
		return fail(err)
	}
	if err := ctl.Catalog().ValidateSelection(n.Character, n.Series, n.Item); err != nil {
		return fail(err)
	}

	it, err := ctl.Add(ctx, n)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Added %s %s (%s) for %s\nid: %s\n",
		it.Character, it.Item, it.Series, stats.FormatUSD(it.PurchasePrice), it.ID)
	return subcommands.ExitSuccess
}

type updateCmd struct {
	serverFlag
	character string
	series    string
	item      string
	price     string
	sell      string
	status    string
	image     string
	notes     string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change fields of an item" }
func (*updateCmd) Usage() string {
	return `update [flags] <id>

  Only the flags given are changed. -sell "" clears the sell price.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.character, "character", "", "character name")
	f.StringVar(&c.series, "series", "", "series name")
	f.StringVar(&c.item, "item", "", "item name")
	f.StringVar(&c.price, "price", "", "purchase price")
	f.StringVar(&c.sell, "sell", "", "sell price, empty to clear")
	f.StringVar(&c.status, "status", "", "Owned, Wishlist, \"For Sale\" or Sold")
	f.StringVar(&c.image, "image", "", "image URL")
	f.StringVar(&c.notes, "notes", "", "free-form notes")
}

// patch builds a sparse update from the flags that were set on the command line.
func (c *updateCmd) patch(f *flag.FlagSet) (model.ItemPatch, error) {
	var p model.ItemPatch
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "character":
			p.Character = &c.character
		case "series":
			p.Series = &c.series
		case "item":
			p.Item = &c.item
		case "status":
			p.Status = &c.status
		case "image":
			p.Image = &c.image
		case "notes":
			p.Notes = &c.notes
		case "price":
			d, perr := model.ParsePrice("purchase price", c.price)
			if perr != nil {
				err = perr
				return
			}
			p.PurchasePrice = &d
		case "sell":
			d, perr := model.ParseSellPrice(c.sell)
			if perr != nil {
				err = perr
				return
			}
			p.SellPrice = &d
		}
	})
	if err != nil {
		return p, err
	}
	if p.Empty() {
		return p, model.Invalid("nothing to update")
	}
	return p, p.Validate()
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	p, err := c.patch(f)
	if err != nil {
		return fail(err)
	}
	ctl, _, err := c.signedIn()
	if err != nil {
		return fail(err)
	}
	if err := ctl.Update(ctx, f.Arg(0), p); err != nil {
		return fail(err)
	}
	fmt.Println("Updated", f.Arg(0))
	return subcommands.ExitSuccess
}

type deleteCmd struct{ serverFlag }

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove an item from the collection" }
func (*deleteCmd) Usage() string    { return "delete <id>...\n" }

func (c *deleteCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	ctl, _, err := c.signedIn()
	if err != nil {
		return fail(err)
	}
	for _, id := range f.Args() {
		if err := ctl.Delete(ctx, id); err != nil {
			return fail(fmt.Errorf("deleting %s: %w", id, err))
		}
		fmt.Println("Deleted", id)
	}
	return subcommands.ExitSuccess
}
