package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/spoolsync/internal/spoolman"
	"github.com/five82/spoolsync/internal/state"
)

// DefaultInterval is the fixed refresh cadence.
const DefaultInterval = 30 * time.Second

var (
	// ErrUpdateFailed wraps every refresh failure.
	ErrUpdateFailed = errors.New("error communicating with SpoolmanSync")

	// ErrNotReady is returned when the first refresh at startup fails.
	ErrNotReady = errors.New("spoolmansync not ready")
)

// Fetcher reads the two collections a refresh publishes.
type Fetcher interface {
	FetchPrinters(ctx context.Context) ([]spoolman.Printer, error)
	FetchSpools(ctx context.Context) ([]spoolman.Spool, error)
}

// Coordinator refreshes the shared store on a fixed interval and on demand.
type Coordinator struct {
	fetcher  Fetcher
	store    *state.Store
	interval time.Duration
	log      logrus.FieldLogger

	requests chan struct{}

	mu      sync.Mutex // serializes refreshes
	failing bool
}

// New builds a Coordinator. A nil store or logger gets a fresh default and a
// non-positive interval uses DefaultInterval.
func New(fetcher Fetcher, store *state.Store, interval time.Duration, log logrus.FieldLogger) *Coordinator {
	if store == nil {
		store = &state.Store{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		log:      log.WithField("component", "coordinator"),
		requests: make(chan struct{}, 1),
	}
}

// Store returns the store the coordinator publishes to.
func (c *Coordinator) Store() *state.Store {
	return c.store
}

// Interval returns the refresh cadence.
func (c *Coordinator) Interval() time.Duration {
	return c.interval
}

// Refresh fetches printers then spools and publishes both as one update.
// Any failure is wrapped in ErrUpdateFailed, recorded on the store and
// returned; previously published data stays in place.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.fetch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		c.store.Update(state.Data{}, err)
		if !c.failing {
			c.log.WithError(err).Error("error fetching spoolmansync data")
		} else {
			c.log.WithError(err).Debug("refresh still failing")
		}
		c.failing = true
		return err
	}

	c.store.Update(data, nil)
	if c.failing {
		c.log.Info("fetching spoolmansync data recovered")
	}
	c.failing = false
	c.log.WithFields(logrus.Fields{
		"printers": len(data.Printers),
		"spools":   len(data.Spools),
	}).Debug("refresh complete")
	return nil
}

func (c *Coordinator) fetch(ctx context.Context) (state.Data, error) {
	printers, err := c.fetcher.FetchPrinters(ctx)
	if err != nil {
		return state.Data{}, err
	}
	spools, err := c.fetcher.FetchSpools(ctx)
	if err != nil {
		return state.Data{}, err
	}
	return state.Data{Printers: printers, Spools: spools}, nil
}

// FirstRefresh performs the startup refresh synchronously.
func (c *Coordinator) FirstRefresh(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

// RequestRefresh asks the running loop to refresh as soon as possible.
// Requests made while one is pending are coalesced. It never blocks.
func (c *Coordinator) RequestRefresh() {
	select {
	case c.requests <- struct{}{}:
	default:
	}
}

// Start launches the refresh loop in a background goroutine and returns
// immediately. The loop stops when ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Coordinator) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-c.requests:
		}
		if ctx.Err() != nil {
			return
		}
		_ = c.Refresh(ctx)
		// Each refresh restarts the interval.
		ticker.Reset(c.interval)
	}
}
