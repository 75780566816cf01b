// Package geo obtains one-shot coordinate fixes from a location
// capability provider, best-effort.
package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pontoamd/ponto-server/internal/logger"
)

var (
	// ErrUnsupported means no location capability is available at all.
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrPermissionDenied means the provider refused the request.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrTimeout means no fix arrived within the configured window.
	ErrTimeout = errors.New("geolocation request timed out")
)

// Fix is a single coordinate reading. No history or trajectory is kept.
type Fix struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// Provider is the device location capability.
type Provider interface {
	CurrentPosition(ctx context.Context, highAccuracy bool) (Fix, error)
}

// StaticProvider always reports one fixed coordinate. It models a
// deployment where clock-in happens at a known workplace address and
// the terminal carries no GPS.
type StaticProvider struct {
	latitude  float64
	longitude float64
}

// NewStaticProvider creates a provider pinned to the given coordinate.
func NewStaticProvider(latitude, longitude float64) *StaticProvider {
	return &StaticProvider{latitude: latitude, longitude: longitude}
}

// CurrentPosition returns the configured coordinate with a fresh
// reading time.
func (p *StaticProvider) CurrentPosition(ctx context.Context, _ bool) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	return Fix{Latitude: p.latitude, Longitude: p.longitude, At: time.Now()}, nil
}

// Probe wraps a Provider with a bounded timeout and holds the last
// successful fix. Concurrent Locate calls are not coordinated; the last
// writer wins, which is acceptable because callers serialize refreshes.
type Probe struct {
	provider     Provider
	timeout      time.Duration
	highAccuracy bool
	logger       *logger.Logger

	mu   sync.Mutex
	last *Fix
}

// NewProbe creates a probe. A nil provider models an environment with
// no location capability; every Locate then fails with ErrUnsupported.
func NewProbe(provider Provider, timeout time.Duration, highAccuracy bool, logger *logger.Logger) *Probe {
	return &Probe{
		provider:     provider,
		timeout:      timeout,
		highAccuracy: highAccuracy,
		logger:       logger,
	}
}

// Locate requests a single fix. It can be re-invoked at any time.
func (p *Probe) Locate(ctx context.Context) (Fix, error) {
	if p.provider == nil {
		return Fix{}, ErrUnsupported
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	fix, err := p.provider.CurrentPosition(ctx, p.highAccuracy)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Fix{}, ErrTimeout
		}
		return Fix{}, fmt.Errorf("failed to get position: %w", err)
	}

	if fix.At.IsZero() {
		fix.At = time.Now()
	}

	p.mu.Lock()
	p.last = &fix
	p.mu.Unlock()

	p.logger.Debug("location fix acquired", "latitude", fix.Latitude, "longitude", fix.Longitude)

	return fix, nil
}

// Last returns the most recent successful fix, if any.
func (p *Probe) Last() (Fix, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return Fix{}, false
	}
	return *p.last, true
}
