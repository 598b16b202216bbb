// Package classifier defines the external content-classification boundary
// and the implementations behind it: a deterministic rule-based matcher for
// offline deployments and tests, and an HTTP client for a remote AI/ML
// classification service.
//
// Classifier failures never become vault errors; the quarantine engine
// degrades a failed call to "no verdict available".
package classifier

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-content-vault/models"
)

// Classifier produces a risk verdict for a piece of content. contentID is
// only used for correlation in logs and on the remote side; the verdict is
// a function of the content alone.
type Classifier interface {
	Analyze(ctx context.Context, content []byte, contentID string) (models.Verdict, error)
}

// ErrUnavailable is returned when the classification backend cannot be
// reached or keeps failing after retries.
var ErrUnavailable = errors.New("classifier unavailable")
