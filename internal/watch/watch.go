// Package watch re-lists the directory on an interval and reports status
// transitions between consecutive listings.
package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/logging"
)

// Lister is the directory call the watcher repeats.
type Lister interface {
	ListServices(ctx context.Context) ([]directory.Service, error)
}

// Change is a service whose status differs from the previous listing.
type Change struct {
	Service  directory.Service
	Previous string
}

// Watcher lists services immediately and then on every tick.
type Watcher struct {
	lister   Lister
	interval time.Duration
	onList   func([]directory.Service, error)
	onChange func(Change)
	logger   *zap.SugaredLogger
	wg       sync.WaitGroup

	// last status per service id; touched only by the watch goroutine
	prev map[directory.ID]string
}

// New creates a Watcher. Pass nil logger to discard logs.
func New(lister Lister, interval time.Duration, logger *zap.SugaredLogger) *Watcher {
	return &Watcher{
		lister:   lister,
		interval: interval,
		logger:   logging.OrNop(logger),
	}
}

// SetOnList sets the callback invoked with every listing outcome.
func (w *Watcher) SetOnList(fn func([]directory.Service, error)) {
	w.onList = fn
}

// SetOnChange sets the callback invoked for each status transition. Services
// seen for the first time and failed listings produce no changes.
func (w *Watcher) SetOnChange(fn func(Change)) {
	w.onChange = fn
}

// Start runs the watch loop in a goroutine. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Wait blocks until the watch loop has exited.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	// Run immediately.
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	services, err := w.lister.ListServices(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		w.logger.Warnw("listing services", "error", err)
	} else {
		w.diff(services)
	}
	if w.onList != nil {
		w.onList(services, err)
	}
}

func (w *Watcher) diff(services []directory.Service) {
	next := make(map[directory.ID]string, len(services))
	for _, svc := range services {
		next[svc.ID] = svc.Status
		prev, seen := w.prev[svc.ID]
		if !seen || prev == svc.Status {
			continue
		}
		w.logger.Infow("status changed",
			"id", svc.ID,
			"name", svc.Name,
			"from", prev,
			"to", svc.Status,
		)
		if w.onChange != nil {
			w.onChange(Change{Service: svc, Previous: prev})
		}
	}
	w.prev = next
}
