package audit

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-content-vault/models"
)

// Worker consumes committed quarantine events from the engine's outbound
// channel and folds them into the ledger. Keeping delivery on a channel
// decouples decision logic from recording guarantees.
type Worker struct {
	ledger *Ledger
	inbox  <-chan models.QuarantineEvent
}

// NewWorker constructs a Worker over the given inbox channel.
func NewWorker(ledger *Ledger, inbox <-chan models.QuarantineEvent) *Worker {
	return &Worker{ledger: ledger, inbox: inbox}
}

// Run blocks consuming events until ctx is cancelled or the inbox closes.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			reason := event.Reason
			if event.ApplyFailed {
				reason = fmt.Sprintf("%s (action not applied)", reason)
			}
			w.ledger.Record(ctx, "quarantine_"+string(event.Action), event.ItemID, !event.ApplyFailed, reason)
		}
	}
}
