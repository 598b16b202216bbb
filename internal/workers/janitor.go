// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"time"

	"github.com/MKhiriev/go-content-vault/internal/logger"
)

// HistoryPruner is the slice of the deletion service the janitor needs.
type HistoryPruner interface {
	PruneHistory(now time.Time) int
}

// HistoryJanitor periodically drops finished deletion jobs that outlived
// their retention period.
type HistoryJanitor struct {
	pruner   HistoryPruner
	interval time.Duration
	logger   *logger.Logger

	stop chan struct{}
	done chan struct{}
}

// NewHistoryJanitor constructs a janitor. A zero or negative interval
// disables it; Run becomes a no-op.
func NewHistoryJanitor(pruner HistoryPruner, interval time.Duration, log *logger.Logger) *HistoryJanitor {
	return &HistoryJanitor{
		pruner:   pruner,
		interval: interval,
		logger:   log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run starts the prune loop in a background goroutine.
func (w *HistoryJanitor) Run() {
	if w.interval <= 0 {
		close(w.done)
		return
	}

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				if pruned := w.pruner.PruneHistory(time.Now()); pruned > 0 {
					w.logger.Info().Int("pruned", pruned).Msg("deletion history pruned")
				}
			}
		}
	}()
}

// Stop terminates the prune loop and waits for it to exit.
func (w *HistoryJanitor) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	<-w.done
}
