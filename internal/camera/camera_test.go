package camera

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegFrame = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

func newSnapshotServer(t *testing.T, frame []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(frame)
	}))
	t.Cleanup(ts.Close)
	return ts, &hits
}

func TestCameraStartCaptureStop(t *testing.T) {
	ts, _ := newSnapshotServer(t, jpegFrame)
	cam := New(ts.URL)

	require.NoError(t, cam.Start(context.Background()))
	assert.True(t, cam.Active())

	att, err := cam.Capture(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(att.Name, "capture-"))
	assert.True(t, strings.HasSuffix(att.Name, ".jpg"))
	assert.Equal(t, "image/jpeg", att.MIME)
	assert.Equal(t, jpegFrame, att.Data)

	// Capture releases the session on success.
	assert.False(t, cam.Active())
}

func TestCameraStartTwiceIsNoop(t *testing.T) {
	ts, hits := newSnapshotServer(t, jpegFrame)
	cam := New(ts.URL)

	require.NoError(t, cam.Start(context.Background()))
	require.NoError(t, cam.Start(context.Background()))

	// Only the first Start probes the endpoint.
	assert.Equal(t, int32(1), hits.Load())
}

func TestCameraStopIsIdempotent(t *testing.T) {
	ts, _ := newSnapshotServer(t, jpegFrame)
	cam := New(ts.URL)

	require.NoError(t, cam.Start(context.Background()))
	cam.Stop()
	cam.Stop()
	assert.False(t, cam.Active())
}

func TestCameraStartDenied(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	cam := New(ts.URL)
	err := cam.Start(context.Background())
	require.Error(t, err)
	assert.False(t, cam.Active())
}

func TestCameraStartUnreachable(t *testing.T) {
	cam := New("http://127.0.0.1:1/snapshot")
	err := cam.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camera unavailable")
	assert.False(t, cam.Active())
}

func TestCaptureWithoutStart(t *testing.T) {
	ts, _ := newSnapshotServer(t, jpegFrame)
	cam := New(ts.URL)

	_, err := cam.Capture(context.Background())
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestCaptureRejectsNonJPEG(t *testing.T) {
	ts, _ := newSnapshotServer(t, []byte("<html>not a camera</html>"))
	cam := New(ts.URL)

	require.NoError(t, cam.Start(context.Background()))
	_, err := cam.Capture(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JPEG")

	// Failed capture leaves the session to the caller's Stop.
	cam.Stop()
	assert.False(t, cam.Active())
}
