// Package catalog provides read-only lookup of the known characters, series
// and items, loaded once from the bundled catalog data file.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/erazemk/zbirka/internal/model"
)

//go:embed catalog-data.json
var bundled []byte

// Entry is a catalog item within a series.
type Entry struct {
	Name      string `json:"name"`
	ImageID   string `json:"imageId"`
	StockXURL string `json:"stockXUrl,omitempty"`
}

// Series describes a series and its owning character.
type Series struct {
	Name       string `json:"name"`
	Character  string `json:"character"`
	PopMartURL string `json:"popmartUrl"`
}

// Data is the lookup form of the catalog.
type Data struct {
	Characters        []string           `json:"characters"`
	SeriesByCharacter map[string][]string `json:"seriesByCharacter"`
	ItemsBySeries     map[string][]Entry `json:"itemsBySeries"`
	SeriesData        map[string]Series  `json:"seriesData"`
}

// file mirrors the layout of catalog-data.json.
type file struct {
	Characters []struct {
		Name string `json:"name"`
	} `json:"characters"`
	Series []struct {
		Name       string `json:"name"`
		Character  string `json:"character"`
		PopMartURL string `json:"popmartUrl"`
	} `json:"series"`
	Items []struct {
		Name      string `json:"name"`
		Series    string `json:"series"`
		ImageURL  string `json:"imageUrl"`
		StockXURL string `json:"stockXUrl"`
	} `json:"items"`
}

var (
	once   sync.Once
	loaded *Data
)

// Get returns the bundled catalog. The bundled file is trusted; a malformed
// file is a build defect and panics.
func Get() *Data {
	once.Do(func() {
		d, err := Parse(bytes.NewReader(bundled))
		if err != nil {
			panic(fmt.Sprintf("catalog: bundled data: %v", err))
		}
		loaded = d
	})
	return loaded
}

// Parse builds lookup data from a catalog data file.
func Parse(r io.Reader) (*Data, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	d := &Data{
		SeriesByCharacter: make(map[string][]string),
		ItemsBySeries:     make(map[string][]Entry),
		SeriesData:        make(map[string]Series),
	}
	for _, c := range f.Characters {
		d.Characters = append(d.Characters, c.Name)
	}
	for _, s := range f.Series {
		d.SeriesByCharacter[s.Character] = append(d.SeriesByCharacter[s.Character], s.Name)
		d.SeriesData[s.Name] = Series{Name: s.Name, Character: s.Character, PopMartURL: s.PopMartURL}
	}
	for _, it := range f.Items {
		d.ItemsBySeries[it.Series] = append(d.ItemsBySeries[it.Series], Entry{
			Name:      it.Name,
			ImageID:   it.ImageURL,
			StockXURL: it.StockXURL,
		})
	}
	return d, nil
}

// Find returns the catalog entry for an item of a series.
func (d *Data) Find(series, item string) (Entry, bool) {
	for _, e := range d.ItemsBySeries[series] {
		if e.Name == item {
			return e, true
		}
	}
	return Entry{}, false
}

// ImageFor returns the display image URL for a catalog item, or "" when the
// item is not in the catalog.
func (d *Data) ImageFor(series, item string) string {
	e, ok := d.Find(series, item)
	if !ok {
		return ""
	}
	return ImageURL(e.ImageID)
}

// ItemNames returns the item names of a series in catalog order.
func (d *Data) ItemNames(series string) []string {
	entries := d.ItemsBySeries[series]
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// ValidateSelection checks that series belongs to character and item to series.
func (d *Data) ValidateSelection(character, series, item string) error {
	if !slices.Contains(d.Characters, character) {
		return model.Invalid("unknown character %q", character)
	}
	if !slices.Contains(d.SeriesByCharacter[character], series) {
		return model.Invalid("series %q does not belong to %s", series, character)
	}
	if _, ok := d.Find(series, item); !ok {
		return model.Invalid("item %q is not part of %s", item, series)
	}
	return nil
}
