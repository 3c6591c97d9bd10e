// Package predict talks to the external soil prediction service.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"soil_health"
	"soil_health/internal/logger"
)

const (
	predictPath     = "/predict"
	maxBodyBytes    = 1 << 20 // 1 MB
	maxErrorSnippet = 256
	headerRequestID = "X-Request-ID"
)

var (
	ErrTransport         = errors.New("prediction service unreachable")
	ErrMalformedResponse = errors.New("malformed prediction response")
	ErrResponseTooLarge  = errors.New("prediction response too large")
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string // leading part of the response body
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction service returned status %d", e.Code)
}

// IsTimeout reports whether err comes from the client timeout or a context deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Client issues exactly one POST /predict per call. It never retries.
type Client struct {
	base string
	http *http.Client
	log  *logger.Logger
}

// NewClient builds a client for the service at baseURL. A zero timeout means no client-side limit.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		base: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

type requestIDKey struct{}

// WithRequestID attaches an id that is forwarded as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Predict posts the readings and decodes the diagnostic payload.
func (c *Client) Predict(ctx context.Context, r soil_health.Readings) (soil_health.PredictResponse, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return soil_health.PredictResponse{}, fmt.Errorf("encode readings: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+predictPath, bytes.NewReader(body))
	if err != nil {
		return soil_health.PredictResponse{}, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := requestIDFrom(ctx); id != "" {
		req.Header.Set(headerRequestID, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return soil_health.PredictResponse{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// One byte past the cap tells a full body from a cut one.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return soil_health.PredictResponse{}, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return soil_health.PredictResponse{}, &StatusError{Code: resp.StatusCode, Body: snippet(raw)}
	}
	if len(raw) > maxBodyBytes {
		return soil_health.PredictResponse{}, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxBodyBytes)
	}

	out, err := decode(raw)
	if err != nil {
		return soil_health.PredictResponse{}, err
	}
	if out.Error != "" && c.log != nil {
		c.log.Warnw("predict_service_reported_error", "err", out.Error, "request_id", requestIDFrom(ctx))
	}
	return out, nil
}

// decode requires a JSON object but tolerates missing or mistyped fields,
// which come back as "" so the caller can substitute its fallbacks.
func decode(raw []byte) (soil_health.PredictResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return soil_health.PredictResponse{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if fields == nil {
		return soil_health.PredictResponse{}, fmt.Errorf("%w: null body", ErrMalformedResponse)
	}
	return soil_health.PredictResponse{
		PlantHealthStatus: stringField(fields, "plant_health_status"),
		Recommendations:   stringField(fields, "recommendations"),
		Error:             stringField(fields, "error"),
	}, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func snippet(b []byte) string {
	if len(b) > maxErrorSnippet {
		b = b[:maxErrorSnippet]
	}
	return strings.TrimSpace(string(b))
}
