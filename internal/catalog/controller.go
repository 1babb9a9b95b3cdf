package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ekaraca/dolap/internal/imaging"
	"github.com/ekaraca/dolap/internal/metrics"
	"github.com/ekaraca/dolap/internal/model"
	"github.com/ekaraca/dolap/internal/store"
)

// Controller owns the session State and mediates every transition,
// query, and mutation. A mutex serializes all access, so the State
// itself never sees concurrent writers.
type Controller struct {
	mu    sync.Mutex
	db    *sql.DB
	state *State
}

// NewController creates a controller in the landing view.
func NewController(db *sql.DB) *Controller {
	return &Controller{db: db, state: NewState()}
}

// Snapshot is a point-in-time projection of the session for rendering.
type Snapshot struct {
	Landing  bool            `json:"landing"`
	Profile  model.Profile   `json:"profile,omitempty"`
	Category model.Category  `json:"category,omitempty"`
	Items    []model.Item    `json:"items"`
	Outfit   map[Slot]string `json:"outfit"`
}

func (c *Controller) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Landing: c.state.Landing(),
		Items:   c.state.Items(),
		Outfit:  c.state.Outfit(),
	}
	if !snap.Landing {
		f := c.state.Filter()
		snap.Profile = f.Profile
		snap.Category = f.Category
	}
	if snap.Items == nil {
		snap.Items = []model.Item{}
	}
	return snap
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SelectProfile enters the dashboard for a profile and runs the initial
// (profile, all) query.
func (c *Controller) SelectProfile(ctx context.Context, p model.Profile) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen, err := c.state.SelectProfile(p)
	if err != nil {
		return nil, err
	}
	return c.runQueryLocked(ctx, gen)
}

// GoBack returns to the landing view, discarding the dashboard.
func (c *Controller) GoBack() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.GoBack()
	return c.snapshotLocked()
}

// SetCategory updates the active category filter and re-queries.
func (c *Controller) SetCategory(ctx context.Context, cat model.Category) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen, err := c.state.SetCategory(cat)
	if err != nil {
		return nil, err
	}
	return c.runQueryLocked(ctx, gen)
}

// AddItem runs the full add pipeline: transcode the uploaded photo,
// persist it under the active profile, and refresh the grid. Any
// failure aborts the whole operation — a partial item is never written.
func (c *Controller) AddItem(ctx context.Context, category model.Category, blob io.Reader) (*model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Landing() {
		return nil, ErrNoProfile
	}
	if !category.Valid() {
		return nil, ErrBadCategory
	}

	payload, err := imaging.Transcode(blob)
	metrics.Transcode(err)
	if err != nil {
		return nil, err
	}

	profile := c.state.Filter().Profile
	item, err := store.InsertItem(ctx, c.db, profile, category, payload.DataURL)
	metrics.Mutation("add", err)
	if err != nil {
		return nil, fmt.Errorf("persisting item: %w", err)
	}

	c.refreshLocked(ctx)
	return item, nil
}

// DeleteItem removes an item by identity and refreshes the grid. The
// caller must pass the user's explicit confirmation; without it nothing
// is issued to the store. Outfit slots keep their image copies.
func (c *Controller) DeleteItem(ctx context.Context, id string, confirmed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !confirmed {
		return ErrNotConfirmed
	}
	if c.state.Landing() {
		return ErrNoProfile
	}

	err := store.DeleteItem(ctx, c.db, id)
	metrics.Mutation("delete", err)
	if err != nil {
		return err
	}

	c.refreshLocked(ctx)
	return nil
}

// AssignSlot copies an item's image payload into an outfit slot.
func (c *Controller) AssignSlot(ctx context.Context, slot Slot, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Landing() {
		return ErrNoProfile
	}
	if !slot.Valid() {
		return ErrBadSlot
	}

	item, err := store.GetItem(ctx, c.db, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}

	return c.state.AssignSlot(slot, item.Image)
}

// ResetOutfit clears all outfit slots.
func (c *Controller) ResetOutfit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ResetOutfit()
}

// runQueryLocked executes the active filter's query and applies the
// result if the generation is still current.
func (c *Controller) runQueryLocked(ctx context.Context, gen uint64) (*Snapshot, error) {
	filter := c.state.Filter()
	items, err := store.QueryItems(ctx, c.db, filter)
	metrics.Query(err)
	if err != nil {
		// Surfaced verbatim for display; no retry at this layer.
		return nil, fmt.Errorf("running catalog query: %w", err)
	}
	if !c.state.Apply(gen, items) {
		metrics.StaleResult()
	}
	return c.snapshotLocked(), nil
}

// refreshLocked re-runs the active filter's query after a mutation. The
// mutation has already succeeded, so a refresh failure is only logged;
// the next query will surface it.
func (c *Controller) refreshLocked(ctx context.Context) {
	gen, err := c.state.Refresh()
	if err != nil {
		return
	}
	if _, err := c.runQueryLocked(ctx, gen); err != nil {
		slog.Warn("catalog refresh after mutation failed", "error", err)
	}
}
