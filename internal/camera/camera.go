package camera

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

const (
	// snapshotTimeout bounds a single frame fetch.
	snapshotTimeout = 15 * time.Second
	// maxFrameSize is the largest snapshot we accept (8MB).
	maxFrameSize = 8 * 1024 * 1024
)

// jpegMagic is the SOI marker every JPEG stream starts with.
var jpegMagic = []byte{0xFF, 0xD8}

// ErrNotStarted is returned by Capture when the camera session is inactive.
var ErrNotStarted = fmt.Errorf("camera not started")

// Camera grabs still frames from a snapshot endpoint of a webcam or IP
// camera. A session is acquired with Start and must be released on every
// exit path: Capture releases it after a successful frame, Stop releases
// it from everywhere else. Stop is safe to call repeatedly.
type Camera struct {
	snapshotURL string
	client      *resty.Client

	mu     sync.Mutex
	active bool
}

// New creates a camera for the given snapshot URL.
func New(snapshotURL string) *Camera {
	return &Camera{
		snapshotURL: snapshotURL,
		client:      resty.New().SetTimeout(snapshotTimeout),
	}
}

// Start acquires the camera session by probing the snapshot endpoint.
// Starting an already-started camera is a no-op. On failure the camera
// stays off and no session is held.
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return nil
	}

	res, err := c.client.R().SetContext(ctx).Head(c.snapshotURL)
	if err != nil {
		return fmt.Errorf("camera unavailable: %w", err)
	}
	// Some snapshot endpoints reject HEAD outright; treat only auth and
	// not-found class errors as denial.
	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden || res.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("camera access denied: status %d", res.StatusCode())
	}

	c.active = true
	log.Info().Str("url", c.snapshotURL).Msg("camera session started")
	return nil
}

// Capture fetches the current frame as a JPEG attachment named
// capture-<unix-ms>.jpg. On success the session is released before
// returning, matching the one-shot capture flow.
func (c *Camera) Capture(ctx context.Context) (media.Attachment, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return media.Attachment{}, ErrNotStarted
	}
	c.mu.Unlock()

	res, err := c.client.R().SetContext(ctx).Get(c.snapshotURL)
	if err != nil {
		return media.Attachment{}, fmt.Errorf("failed to fetch frame: %w", err)
	}
	if res.IsError() {
		return media.Attachment{}, fmt.Errorf("failed to fetch frame: status %d", res.StatusCode())
	}

	frame := res.Body()
	if len(frame) > maxFrameSize {
		return media.Attachment{}, fmt.Errorf("frame too large: %d bytes", len(frame))
	}
	if !bytes.HasPrefix(frame, jpegMagic) {
		return media.Attachment{}, fmt.Errorf("snapshot endpoint did not return a JPEG frame")
	}

	att := media.Attachment{
		Name: fmt.Sprintf("capture-%d.jpg", time.Now().UnixMilli()),
		MIME: "image/jpeg",
		Data: frame,
	}

	c.Stop()
	return att, nil
}

// Stop releases the camera session. Calling Stop on a stopped camera does
// nothing, so every exit path may call it unconditionally.
func (c *Camera) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.active = false
	c.client.GetClient().CloseIdleConnections()
	log.Info().Msg("camera session released")
}

// Active reports whether a session is currently held.
func (c *Camera) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// probe checks reachability without touching session state. Used by the
// background monitor.
func (c *Camera) probe(ctx context.Context) error {
	res, err := c.client.R().SetContext(ctx).Head(c.snapshotURL)
	if err != nil {
		return err
	}
	if res.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("status %d", res.StatusCode())
	}
	return nil
}
