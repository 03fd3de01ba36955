package renderer

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/document"
)

// Event is the payload POSTed to a renderer: the issuance result plus the
// purpose and action that produced it.
type Event struct {
	ID       string             `json:"id"`
	Purpose  string             `json:"purpose"`
	Action   string             `json:"action"`
	Issuance *document.Issuance `json:"issuance"`
	Time     time.Time          `json:"time"`
}

// Result summarizes one delivery.
type Result struct {
	EndpointID string `json:"endpoint_id"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
}

// Dispatcher delivers issuance events to matching renderer endpoints. A
// delivery failure never touches the issuance counter: a retried issuance is
// a repeat and goes out masked.
type Dispatcher struct {
	registry *Registry
	client   *http.Client
	logger   zerolog.Logger
}

// NewDispatcher creates a Dispatcher over the registry.
func NewDispatcher(registry *Registry, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// SignPayload returns the hex-encoded HMAC-SHA256 of payload under secret.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the HMAC-SHA256 of
// payload under secret.
func VerifySignature(payload []byte, secret, signature string) bool {
	return hmac.Equal([]byte(SignPayload(payload, secret)), []byte(signature))
}

// Dispatch sends the issuance to every active endpoint subscribed to its
// purpose. Failures are logged and reported, never fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, purpose, action string, iss *document.Issuance) []Result {
	endpoints, _, err := d.registry.List(ctx, 1000, 0)
	if err != nil {
		d.logger.Error().Err(err).Msg("list renderer endpoints")
		return nil
	}

	event := Event{
		ID:       uuid.New().String(),
		Purpose:  purpose,
		Action:   action,
		Issuance: iss,
		Time:     time.Now().UTC(),
	}

	var results []Result
	for _, ep := range endpoints {
		if ep.Status != "active" || !matchesPurpose(ep, purpose) {
			continue
		}
		results = append(results, d.deliver(ctx, ep, event))
	}
	return results
}

func (d *Dispatcher) deliver(ctx context.Context, ep *Endpoint, event Event) Result {
	payload, err := json.Marshal(event)
	if err != nil {
		return Result{EndpointID: ep.ID, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(payload))
	if err != nil {
		return Result{EndpointID: ep.ID, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Renderer-Signature", "sha256="+SignPayload(payload, ep.Secret))
	req.Header.Set("X-Renderer-Event", event.ID)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn().Str("endpoint_id", ep.ID).Err(err).Msg("renderer delivery failed")
		return Result{EndpointID: ep.ID, Error: err.Error()}
	}
	defer resp.Body.Close()

	result := Result{EndpointID: ep.ID, StatusCode: resp.StatusCode}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Success = true
	} else {
		result.Error = fmt.Sprintf("non-2xx response: %d", resp.StatusCode)
		d.logger.Warn().Str("endpoint_id", ep.ID).Int("status", resp.StatusCode).Msg("renderer delivery failed")
	}
	return result
}
