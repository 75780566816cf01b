// Package capture drives a camera capability through the
// acquire/preview/freeze/retake cycle and produces a single JPEG still
// used as proof of presence.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/pontoamd/ponto-server/internal/logger"
)

// State is the capture lifecycle state.
type State string

const (
	// StateAcquiring means the device is being requested.
	StateAcquiring State = "ACQUIRING"
	// StateLive means a stream is attached but no frame decoded yet.
	StateLive State = "LIVE"
	// StateReady means the first decodable frame has been seen.
	StateReady State = "READY"
	// StateFrozen means a still image has been captured and the stream released.
	StateFrozen State = "FROZEN"
	// StateError means the device denied access or is unavailable.
	StateError State = "ERROR"
)

var (
	// ErrPermissionDenied is returned by devices refusing access.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrDeviceUnavailable is returned when no camera can be opened.
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	// ErrNotReady refuses capture before a decodable frame was seen.
	ErrNotReady = errors.New("capture refused: stream not ready")
	// ErrEmptyFrame refuses capture of a zero-dimension frame.
	ErrEmptyFrame = errors.New("capture refused: frame has zero dimensions")
	// ErrClosed is returned after the controller has been torn down.
	ErrClosed = errors.New("capture controller is closed")
)

// Device is the camera capability provider.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is a live preview stream. Frame returns the current frame;
// it fails until the stream produces a decodable image.
type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

// Controller owns at most one stream and at most one still image at a
// time. All methods are safe for concurrent use; the UI above it
// serializes user actions, the lock only guards teardown races.
type Controller struct {
	device  Device
	quality int
	logger  *logger.Logger

	mu     sync.Mutex
	state  State
	stream Stream
	still  []byte
	closed bool
}

// NewController creates a capture controller for the given device.
// Quality is the JPEG quality used when freezing a frame.
func NewController(device Device, quality int, logger *logger.Logger) *Controller {
	return &Controller{
		device:  device,
		quality: quality,
		logger:  logger,
		state:   StateAcquiring,
	}
}

// Acquire requests the device and attaches its stream. Any previously
// held stream is released first. If the controller was closed while the
// request was in flight, the fresh stream is released immediately.
func (c *Controller) Acquire(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.releaseLocked()
	c.state = StateAcquiring
	c.mu.Unlock()

	stream, err := c.device.Open(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateError
		return fmt.Errorf("failed to acquire camera: %w", err)
	}

	// Liveness check: teardown may have happened mid-acquisition.
	if c.closed {
		if cerr := stream.Close(); cerr != nil {
			c.logger.Error("failed to release stream after teardown", "error", cerr)
		}
		return ErrClosed
	}

	c.stream = stream
	c.state = StateLive
	return nil
}

// Refresh polls the stream for a frame and promotes LIVE to READY on
// the first decodable one. It is a no-op in any other state.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLive {
		return nil
	}

	if _, err := c.stream.Frame(); err != nil {
		return fmt.Errorf("frame not decodable yet: %w", err)
	}

	c.state = StateReady
	return nil
}

// Capture freezes the current frame into a JPEG still and releases the
// stream. It is refused while not READY and refused for frames that
// report zero width or height.
func (c *Controller) Capture() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil, ErrNotReady
	}

	frame, err := c.stream.Frame()
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	bounds := frame.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptyFrame
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode still: %w", err)
	}

	// Stream released as soon as the still exists to free the device.
	c.releaseLocked()
	c.still = buf.Bytes()
	c.state = StateFrozen

	return c.still, nil
}

// Retake discards the held still and re-requests the device.
func (c *Controller) Retake(ctx context.Context) error {
	c.mu.Lock()
	c.still = nil
	c.mu.Unlock()

	return c.Acquire(ctx)
}

// Still returns the held still image, if any.
func (c *Controller) Still() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.still, c.still != nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close releases the device, best-effort. It must run on every exit
// path so the device lock is never leaked.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.releaseLocked()
}

func (c *Controller) releaseLocked() {
	if c.stream == nil {
		return
	}
	if err := c.stream.Close(); err != nil {
		c.logger.Error("failed to release camera stream", "error", err)
	}
	c.stream = nil
}
