// Package renderer dispatches issued documents to external renderers.
// Rendering (PDF layout, HTML templates, print dialogs) lives outside this
// service: renderers register an HTTPS endpoint and a set of document
// purposes, and the caller layer POSTs them the fully resolved, already
// sanitized issuance result with an HMAC-SHA256 signature. The masked flag
// in the payload tells the renderer whether to draw a watermark. A renderer
// never sees raw PII on a masked issuance.
package renderer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Endpoint is a registered external renderer.
type Endpoint struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Secret    string    `json:"secret,omitempty"`
	Purposes  []string  `json:"purposes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry stores renderer endpoints in memory, keyed by ID, with stable
// ordering for pagination.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]*Endpoint
	order     []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[string]*Endpoint)}
}

// generateSecret produces a cryptographically random 32-byte hex string.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

// Register validates and stores a renderer endpoint. An empty secret gets a
// generated one.
func (r *Registry) Register(_ context.Context, rawURL, secret string, purposes []string) (*Endpoint, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if secret == "" {
		s, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		secret = s
	}

	ep := &Endpoint{
		ID:        uuid.New().String(),
		URL:       rawURL,
		Secret:    secret,
		Purposes:  purposes,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[ep.ID] = ep
	r.order = append(r.order, ep.ID)
	return ep, nil
}

// Get returns the endpoint with the given ID.
func (r *Registry) Get(_ context.Context, id string) (*Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[id]
	if !ok {
		return nil, fmt.Errorf("renderer endpoint %s not found", id)
	}
	return ep, nil
}

// List returns endpoints in registration order.
func (r *Registry) List(_ context.Context, limit, offset int) ([]*Endpoint, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	result := make([]*Endpoint, 0, end-offset)
	for _, id := range r.order[offset:end] {
		result = append(result, r.endpoints[id])
	}
	return result, total, nil
}

// Remove deletes the endpoint with the given ID.
func (r *Registry) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.endpoints[id]; !ok {
		return fmt.Errorf("renderer endpoint %s not found", id)
	}
	delete(r.endpoints, id)
	for i, eid := range r.order {
		if eid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// matchesPurpose reports whether the endpoint subscribes to the purpose.
// "*" subscribes to everything.
func matchesPurpose(ep *Endpoint, purpose string) bool {
	for _, p := range ep.Purposes {
		if p == "*" || p == purpose {
			return true
		}
	}
	return false
}
