// Package garage holds the selection widget: the customer's working list of
// vehicles, the picker state, and debounced single-flight persistence of the
// list to the gateway.
package garage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GKRMP/garage/internal/catalog"
	"github.com/GKRMP/garage/internal/domain"
)

const (
	DefaultSaveDebounce  = time.Second
	DefaultStatusTimeout = 3 * time.Second
)

// Backend is the gateway the widget loads from and saves to
type Backend interface {
	ListCatalog(ctx context.Context) ([]domain.Vehicle, error)
	LoadSelection(ctx context.Context, customerID string) ([]string, error)
	SaveSelection(ctx context.Context, customerID string, ids []string) ([]string, error)
}

type Options struct {
	SaveDebounce  time.Duration
	StatusTimeout time.Duration
	SearchLimit   int
	Scheduler     Scheduler
	Logger        *zap.Logger
	// OnChange receives a fresh view after every state change. It is called
	// without the controller lock held and may call back into the controller.
	OnChange func(View)
}

// status is the transient message shown under the garage
type status struct {
	text    string
	isError bool
	timer   Timer
	gen     uint64
}

// Controller owns the widget state. All methods are safe for concurrent use;
// toggles are applied in call order.
type Controller struct {
	backend    Backend
	customerID string
	opts       Options
	logger     *zap.Logger

	mu        sync.Mutex
	selection *Selection
	mutated   bool // local changes exist, so a late initial load must not overwrite them

	catalog     []domain.Vehicle
	catalogByID map[string]domain.Vehicle
	fetch       singleflight.Group // overlapping opens share one catalog request
	open        bool
	query       string

	pending    Timer
	pendingGen uint64
	saving     bool
	dropped    bool // a debounce fired while saving
	failed     bool
	lastErr    error
	lastSaved  []string
	saves      int

	status  status
	changed chan struct{}
}

// New creates a controller for one customer. Call Load to pull the saved garage.
func New(backend Backend, customerID string, opts Options) *Controller {
	if opts.SaveDebounce <= 0 {
		opts.SaveDebounce = DefaultSaveDebounce
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = DefaultStatusTimeout
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = catalog.DefaultLimit
	}
	if opts.Scheduler == nil {
		opts.Scheduler = wallClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:    backend,
		customerID: customerID,
		opts:       opts,
		logger:     logger.With(zap.String("customer_id", customerID)),
		selection:  NewSelection(nil),
		changed:    make(chan struct{}),
	}
}

// Load fetches the saved garage. It is the only time remote state flows into
// the local selection, and it is ignored once the user has toggled anything.
func (c *Controller) Load(ctx context.Context) error {
	ids, err := c.backend.LoadSelection(ctx, c.customerID)

	c.mu.Lock()
	if err != nil {
		c.logger.Warn("Failed to load garage", zap.Error(err))
		c.setStatusLocked("Could not load your garage", true)
		c.unlockAndNotify()
		return fmt.Errorf("load garage: %w", err)
	}
	if c.mutated {
		c.logger.Debug("Ignoring saved garage, local changes already made")
	} else {
		c.selection = NewSelection(ids)
		c.lastSaved = c.selection.IDs()
		if c.catalogByID != nil {
			c.selection.Resolve(c.catalogByID)
		}
	}
	c.unlockAndNotify()
	return nil
}

// Open shows the picker, fetching the catalog on first use. The catalog is
// kept for the lifetime of the controller.
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	c.open = true
	loaded := c.catalogByID != nil
	c.unlockAndNotify()
	if loaded {
		return nil
	}

	_, err, _ := c.fetch.Do("catalog", func() (interface{}, error) {
		vehicles, err := c.backend.ListCatalog(ctx)
		if err != nil {
			return nil, err
		}
		// stored before the flight ends, so a later Open either joins it or sees the catalog
		c.mu.Lock()
		c.catalog = vehicles
		c.catalogByID = make(map[string]domain.Vehicle, len(vehicles))
		for _, v := range vehicles {
			c.catalogByID[v.ID] = v
		}
		c.selection.Resolve(c.catalogByID)
		c.unlockAndNotify()
		return nil, nil
	})
	if err != nil {
		c.mu.Lock()
		c.logger.Warn("Failed to load vehicle catalog", zap.Error(err))
		c.setStatusLocked("Could not load vehicles", true)
		c.unlockAndNotify()
		return fmt.Errorf("load catalog: %w", err)
	}
	return nil
}

// Close hides the picker and clears the search
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.query = ""
	c.unlockAndNotify()
}

// Search sets the picker query
func (c *Controller) Search(query string) {
	c.mu.Lock()
	c.query = query
	c.unlockAndNotify()
}

// Toggle adds v to the garage, or removes it when already present, and
// (re)arms the save debounce.
func (c *Controller) Toggle(v domain.Vehicle) {
	c.mu.Lock()
	c.toggleLocked(v)
	c.unlockAndNotify()
}

// ToggleID toggles by id, using the cached catalog for details when available
func (c *Controller) ToggleID(id string) error {
	if id == "" {
		return fmt.Errorf("vehicle id is required")
	}
	c.mu.Lock()
	v, ok := c.catalogByID[id]
	if !ok {
		if !c.selection.Contains(id) && c.catalogByID != nil {
			c.mu.Unlock()
			return fmt.Errorf("unknown vehicle %s", id)
		}
		v = domain.Vehicle{ID: id}
	}
	c.toggleLocked(v)
	c.unlockAndNotify()
	return nil
}

// Dispatch applies one user event
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventToggle:
		return c.ToggleID(ev.VehicleID)
	case EventSearch:
		c.Search(ev.Query)
		return nil
	case EventOpen:
		return c.Open(ctx)
	case EventClose:
		c.Close()
		return nil
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func (c *Controller) toggleLocked(v domain.Vehicle) {
	added := c.selection.Toggle(v)
	c.mutated = true
	c.logger.Debug("Garage toggled", zap.String("vehicle_id", v.ID), zap.Bool("added", added))
	c.armLocked()
}

// armLocked cancels any armed debounce and starts a new one
func (c *Controller) armLocked() {
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pendingGen++
	gen := c.pendingGen
	c.pending = c.opts.Scheduler.AfterFunc(c.opts.SaveDebounce, func() { c.fire(gen) })
}

// fire runs when the debounce elapses
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.pendingGen || c.pending == nil {
		// superseded by a later toggle or already flushed
		c.mu.Unlock()
		return
	}
	c.pending = nil
	if c.saving {
		// single flight: the in-flight save triggers a follow-up when it completes
		c.dropped = true
		c.unlockAndNotify()
		return
	}
	c.startSaveLocked()
	c.unlockAndNotify()
}

func (c *Controller) startSaveLocked() {
	snapshot := c.selection.IDs()
	c.saving = true
	c.dropped = false
	c.saves++
	go c.save(snapshot)
}

func (c *Controller) save(snapshot []string) {
	// in-flight saves are not cancellable; the transport timeout bounds them
	stored, err := c.backend.SaveSelection(context.Background(), c.customerID, snapshot)

	c.mu.Lock()
	c.saving = false
	followUp := c.dropped
	if err != nil {
		c.logger.Warn("Failed to save garage", zap.Int("items", len(snapshot)), zap.Error(err))
		c.failed = true
		c.lastErr = err
		c.setStatusLocked("Save failed", true)
	} else {
		c.logger.Debug("Garage saved", zap.Int("items", len(stored)))
		c.failed = false
		c.lastErr = nil
		c.lastSaved = snapshot
		if c.status.isError {
			c.clearStatusLocked()
		}
		// the selection moved on while this save was in flight
		if !sameIDs(snapshot, c.selection.IDs()) {
			followUp = true
		}
	}
	if followUp && c.pending == nil {
		c.startSaveLocked()
	}
	c.unlockAndNotify()
}

func (c *Controller) setStatusLocked(text string, isError bool) {
	if c.status.timer != nil {
		c.status.timer.Stop()
	}
	c.status.gen++
	gen := c.status.gen
	c.status.text = text
	c.status.isError = isError
	c.status.timer = c.opts.Scheduler.AfterFunc(c.opts.StatusTimeout, func() { c.hideStatus(gen) })
}

func (c *Controller) clearStatusLocked() {
	if c.status.timer != nil {
		c.status.timer.Stop()
	}
	c.status = status{gen: c.status.gen + 1}
	c.failed = false
}

func (c *Controller) hideStatus(gen uint64) {
	c.mu.Lock()
	if gen != c.status.gen {
		c.mu.Unlock()
		return
	}
	c.clearStatusLocked()
	c.unlockAndNotify()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.saving:
		return Saving
	case c.pending != nil:
		return PendingSave
	case c.failed:
		return SaveFailed
	default:
		return Idle
	}
}

// unlockAndNotify wakes waiters, releases the lock and publishes the new view
func (c *Controller) unlockAndNotify() {
	close(c.changed)
	c.changed = make(chan struct{})
	var v View
	if c.opts.OnChange != nil {
		v = c.viewLocked()
	}
	c.mu.Unlock()
	if c.opts.OnChange != nil {
		c.opts.OnChange(v)
	}
}

// State reports the current persistence state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Saves reports how many save calls have been issued
func (c *Controller) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

// IDs returns the current selection
func (c *Controller) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IDs()
}

// Wait blocks until no debounce is armed and no save is in flight. It returns
// the error of the last save, if it failed.
func (c *Controller) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		if !c.saving && c.pending == nil {
			err := c.lastErr
			c.mu.Unlock()
			return err
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Flush fires an armed debounce immediately and waits for saving to settle
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
		c.pendingGen++
		if c.saving {
			c.dropped = true
		} else {
			c.startSaveLocked()
		}
		c.unlockAndNotify()
	} else {
		c.mu.Unlock()
	}
	return c.Wait(ctx)
}
