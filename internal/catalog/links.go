package catalog

import (
	"regexp"
	"strings"
)

// legacySets maps series names to Pop Mart set ids for series whose catalog
// entry carries no URL.
var legacySets = map[string]string{
	"Big Into Energy":  "195",
	"Have A Seat":      "196",
	"Exciting Macaron": "197",
	"Baby Series":      "198",
	"Everyday":         "199",
	"Music Series":     "200",
	"Career Series":    "201",
	"Zodiac Series":    "202",
	"Sweet Dreams":     "203",
	"Forest Fairies":   "204",
	"Space Babies":     "205",
	"Milk Bottle":      "206",
}

const defaultSet = "195"

// PopMartURL returns the Pop Mart store page for a series.
func (d *Data) PopMartURL(character, series string) string {
	if s, ok := d.SeriesData[series]; ok && s.PopMartURL != "" {
		return s.PopMartURL
	}
	id, ok := legacySets[series]
	if !ok {
		id = defaultSet
	}
	return "https://www.popmart.com/us/pop-now/set/" + id
}

var whitespace = regexp.MustCompile(`\s+`)

func slug(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(s), "-")
}

// StockXURL returns the StockX resale page for an item.
func (d *Data) StockXURL(character, series, item string) string {
	if e, ok := d.Find(series, item); ok && e.StockXURL != "" {
		return e.StockXURL
	}
	return "https://stockx.com/pop-mart-" + slug(character) + "-the-monsters-" + slug(series) +
		"-series-" + slug(item) + "-vinyl-plush-pendant"
}

// ImageURL resolves a catalog image id to a URL.
func ImageURL(imageID string) string {
	switch {
	case strings.HasPrefix(imageID, "http"):
		return imageID
	case strings.HasPrefix(imageID, "photo-"):
		return "https://images.unsplash.com/" + imageID + "?w=400&h=400&fit=crop"
	default:
		return imageID
	}
}
