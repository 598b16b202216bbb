// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/quarantine"
)

// RescanSweeper periodically re-evaluates admitted content against the
// current policy set, so a tightened policy retroactively catches items
// admitted under a looser one.
type RescanSweeper struct {
	engine   *quarantine.Engine
	interval time.Duration
	logger   *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRescanSweeper constructs a sweeper. A zero or negative interval
// disables it; Run becomes a no-op.
func NewRescanSweeper(engine *quarantine.Engine, interval time.Duration, log *logger.Logger) *RescanSweeper {
	return &RescanSweeper{
		engine:   engine,
		interval: interval,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Run starts the sweep loop in a background goroutine.
func (w *RescanSweeper) Run() {
	if w.interval <= 0 {
		close(w.done)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				actioned, err := w.engine.Rescan(ctx)
				if err != nil {
					w.logger.Error().Err(err).Msg("policy rescan sweep failed")
					continue
				}
				if actioned > 0 {
					w.logger.Info().Int("actioned", actioned).Msg("policy rescan sweep applied actions")
				}
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit.
func (w *RescanSweeper) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.done
}
