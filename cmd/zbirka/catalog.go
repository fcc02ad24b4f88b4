package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/catalog"
)

type catalogCmd struct {
	styleFlag
	character string
	series    string
}

func (*catalogCmd) Name() string     { return "catalog" }
func (*catalogCmd) Synopsis() string { return "browse the known characters, series and items" }
func (*catalogCmd) Usage() string {
	return "catalog [-character <name>] [-series <name>] [-style <style>]\n"
}

func (c *catalogCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.character, "character", "", "only this character")
	f.StringVar(&c.series, "series", "", "only this series")
}

func (c *catalogCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	out, err := c.render(catalogMarkdown(catalog.Get(), c.character, c.series))
	if err != nil {
		return fail(err)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

// catalogMarkdown lists characters with their series and items, each series
// linking to its Pop Mart page. Empty character or series match everything.
func catalogMarkdown(d *catalog.Data, character, series string) string {
	var b strings.Builder
	for _, ch := range d.Characters {
		if character != "" && ch != character {
			continue
		}
		var body strings.Builder
		for _, s := range d.SeriesByCharacter[ch] {
			if series != "" && s != series {
				continue
			}
			fmt.Fprintf(&body, "## [%s](%s)\n\n", s, d.PopMartURL(ch, s))
			for _, item := range d.ItemNames(s) {
				fmt.Fprintf(&body, "- %s ([StockX](%s))\n", item, d.StockXURL(ch, s, item))
			}
			body.WriteString("\n")
		}
		if body.Len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n%s", ch, body.String())
	}
	if b.Len() == 0 {
		return "_Nothing in the catalog matches._\n"
	}
	return b.String()
}
