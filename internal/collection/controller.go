// Package collection holds a signed-in user's items in memory and derives
// the filtered, sorted view and statistics from them.
package collection

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/stats"
)

// Gateway persists collection items for the signed-in user.
type Gateway interface {
	GetCollection(ctx context.Context) ([]model.Item, error)
	AddItem(ctx context.Context, item model.NewItem) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, patch model.ItemPatch) error
	DeleteItem(ctx context.Context, id string) error
	Catalog() *catalog.Data
}

// Controller is safe for concurrent use. Gateway calls are made without
// holding the lock, so overlapping updates to one item merge last-wins.
type Controller struct {
	gw Gateway

	mu     sync.Mutex
	items  []model.Item
	filter Filter
	gen    uint64

	// applied counts Load results written to items. A rollback is skipped
	// when a Load landed after the mutation began.
	applied uint64
}

// New returns an empty controller backed by gw.
func New(gw Gateway) *Controller {
	return &Controller{gw: gw, filter: DefaultFilter()}
}

// Load replaces the items with the gateway's collection. When loads overlap
// only the most recently started one is applied.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	items, err := c.gw.GetCollection(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		slog.Debug("dropping stale collection load", "gen", gen, "latest", c.gen)
		return nil
	}
	c.items = items
	c.applied++
	return nil
}

// Add persists a new item and prepends it. On failure nothing changes.
func (c *Controller) Add(ctx context.Context, n model.NewItem) (*model.Item, error) {
	item, err := c.gw.AddItem(ctx, n)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = slices.Insert(c.items, 0, *item)
	c.mu.Unlock()
	return item, nil
}

// Update merges patch into the item locally, then persists it. If the
// gateway fails the previous copy is restored, unless a Load has replaced
// the items since. An unknown id changes nothing locally but is still sent
// to the gateway.
func (c *Controller) Update(ctx context.Context, id string, patch model.ItemPatch) error {
	c.mu.Lock()
	applied := c.applied
	var prev *model.Item
	if i := c.index(id); i >= 0 {
		old := c.items[i]
		prev = &old
		c.items[i] = patch.Apply(old)
	}
	c.mu.Unlock()

	if err := c.gw.UpdateItem(ctx, id, patch); err != nil {
		if prev != nil {
			c.mu.Lock()
			if i := c.index(id); i >= 0 && c.applied == applied {
				c.items[i] = *prev
			}
			c.mu.Unlock()
		}
		return err
	}
	return nil
}

// Delete removes the item locally, then persists the removal. If the gateway
// fails the item is put back where it was, unless a Load has replaced the
// items since or the id is already present again.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	applied := c.applied
	pos := c.index(id)
	var removed model.Item
	if pos >= 0 {
		removed = c.items[pos]
		c.items = slices.Delete(c.items, pos, pos+1)
	}
	c.mu.Unlock()

	if err := c.gw.DeleteItem(ctx, id); err != nil {
		if pos >= 0 {
			c.mu.Lock()
			if c.applied == applied && c.index(id) < 0 {
				c.items = slices.Insert(c.items, min(pos, len(c.items)), removed)
			}
			c.mu.Unlock()
		}
		return err
	}
	return nil
}

// index returns the position of id in c.items or -1. Callers hold c.mu.
func (c *Controller) index(id string) int {
	return slices.IndexFunc(c.items, func(it model.Item) bool { return it.ID == id })
}

// Items returns a copy of the full list, newest first.
func (c *Controller) Items() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Item returns one item by id.
func (c *Controller) Item(id string) (model.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	return model.Item{}, false
}

// Filter returns the current filter and sort key.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter replaces the filter and sort key. Empty fields fall back to the
// defaults.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	c.filter = f.normalize()
	c.mu.Unlock()
}

// Visible returns the filtered and sorted view of the items.
func (c *Controller) Visible() []model.Item {
	c.mu.Lock()
	items, f := slices.Clone(c.items), c.filter
	c.mu.Unlock()
	return Derive(items, f)
}

// Stats summarizes the full list, ignoring the filter.
func (c *Controller) Stats() stats.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stats.Compute(c.items)
}

// SeriesOptions returns the distinct series present in the items, sorted.
func (c *Controller) SeriesOptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var series []string
	for _, it := range c.items {
		if !slices.Contains(series, it.Series) {
			series = append(series, it.Series)
		}
	}
	slices.Sort(series)
	return series
}

// Catalog returns the gateway's catalog.
func (c *Controller) Catalog() *catalog.Data {
	return c.gw.Catalog()
}
