package watch

import (
	"context"
	"log"
	"time"

	"github.com/mamercad/community.healthchecksio/cli/api"
)

const DefaultInterval = 30 * time.Second

// Watcher re-runs a resource lookup on a fixed interval. Every tick is an
// independent lookup; nothing is carried between them.
type Watcher struct {
	Resource  api.Resource
	Interval  time.Duration
	OnOutcome func(api.Outcome) error
	OnError   func(error)
}

// Run polls until ctx is cancelled or OnOutcome returns an error.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = DefaultInterval
	}
	if w.OnError == nil {
		w.OnError = func(err error) { log.Printf("watch: %v", err) }
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	// Run once immediately on start
	if err := w.pollOnce(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := w.pollOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) pollOnce(ctx context.Context) error {
	out, err := w.Resource.Get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		w.OnError(err)
		return nil
	}
	if w.OnOutcome == nil {
		return nil
	}
	return w.OnOutcome(out)
}
