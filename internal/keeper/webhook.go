package keeper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const tracerName = "mischief/keeper"

// WebhookError is returned in checked mode when a webhook answers non-2xx.
type WebhookError struct {
	StatusCode int
	Body       string
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

// WebhookTrigger posts to the start/stop automation hooks. Transport errors
// always fail the call. A non-2xx reply fails it only when checked; unchecked
// triggers log it and report success.
type WebhookTrigger struct {
	httpClient *http.Client
	checked    bool
	logger     *zap.Logger
	metrics    *Metrics
}

// NewWebhookTrigger creates a WebhookTrigger. checked controls non-2xx handling.
func NewWebhookTrigger(httpClient *http.Client, checked bool, logger *zap.Logger) *WebhookTrigger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookTrigger{
		httpClient: httpClient,
		checked:    checked,
		logger:     logger,
		metrics:    GetMetrics(),
	}
}

// Fire sends an empty POST (Content-Length: 0) to endpoint. kind labels logs
// and metrics; the endpoint itself is a secret and never logged.
func (w *WebhookTrigger) Fire(ctx context.Context, kind, endpoint string) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "webhook.fire",
		attribute.String("webhook.kind", kind),
		attribute.Bool("webhook.checked", w.checked),
	)
	defer span.End()

	err := w.post(ctx, endpoint)
	if err == nil {
		w.metrics.RecordWebhookCall(kind, "ok")
		return nil
	}

	telemetry.RecordError(span, err)
	w.metrics.RecordWebhookCall(kind, "failed")
	var hookErr *WebhookError
	if w.checked || !errors.As(err, &hookErr) {
		return err
	}
	w.logger.Warn("webhook call failed, continuing unchecked",
		zap.String("kind", kind),
		zap.Int("status_code", hookErr.StatusCode),
	)
	return nil
}

func (w *WebhookTrigger) post(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return errors.New("build webhook request: invalid webhook url")
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the full url; keep only the cause.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &WebhookError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
