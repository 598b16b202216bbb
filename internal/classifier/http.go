package classifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-content-vault/models"
)

// HTTPClientConfig configures the remote classifier client.
type HTTPClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// MaxRetries bounds the retry loop around transient failures.
	// Defaults to 3.
	MaxRetries uint64
}

type httpClassifier struct {
	client     *resty.Client
	maxRetries uint64
}

type analyzeRequest struct {
	ContentID string `json:"content_id"`
	Content   []byte `json:"content"`
}

// NewHTTPClassifier constructs a [Classifier] backed by a remote
// classification service. Transient failures (network errors, 5xx) are
// retried with fibonacci backoff before the call is reported as
// [ErrUnavailable].
func NewHTTPClassifier(cfg HTTPClientConfig) Classifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		cli.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &httpClassifier{client: cli, maxRetries: cfg.MaxRetries}
}

// Analyze implements [Classifier]. The verdict is returned as-is from the
// remote service; callers own the thresholding.
func (h *httpClassifier) Analyze(ctx context.Context, content []byte, contentID string) (models.Verdict, error) {
	var verdict models.Verdict

	backoff := retry.WithMaxRetries(h.maxRetries, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := h.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(analyzeRequest{ContentID: contentID, Content: content}).
			SetResult(&verdict).
			Post("/v1/analyze")
		if err != nil {
			return retry.RetryableError(fmt.Errorf("analyze request: %w", err))
		}

		switch {
		case resp.StatusCode() == http.StatusOK:
			return nil
		case resp.StatusCode() >= http.StatusInternalServerError:
			return retry.RetryableError(fmt.Errorf("analyze status %d", resp.StatusCode()))
		default:
			return fmt.Errorf("analyze status %d", resp.StatusCode())
		}
	})
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return verdict, nil
}
