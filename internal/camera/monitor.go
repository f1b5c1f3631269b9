package camera

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Monitor periodically probes the camera's snapshot endpoint and logs
// reachability transitions, so a camera that went away is visible in the
// logs before a user hits /camera.
type Monitor struct {
	cam      *Camera
	interval time.Duration
}

// NewMonitor creates a monitor probing cam every interval.
func NewMonitor(cam *Camera, interval time.Duration) *Monitor {
	return &Monitor{cam: cam, interval: interval}
}

// Run starts the probe loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	log.Info().Dur("interval", m.interval).Msg("starting camera monitor")

	reachable := m.check(ctx, true)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("camera monitor stopped")
			return
		case <-ticker.C:
			was := reachable
			reachable = m.check(ctx, false)
			if was != reachable {
				if reachable {
					log.Info().Msg("camera is reachable again")
				} else {
					log.Warn().Msg("camera became unreachable")
				}
			}
		}
	}
}

func (m *Monitor) check(ctx context.Context, logResult bool) bool {
	err := m.cam.probe(ctx)
	if err != nil && ctx.Err() == nil {
		if logResult {
			log.Warn().Err(err).Msg("camera probe failed")
		}
		return false
	}
	if logResult && err == nil {
		log.Info().Msg("camera probe ok")
	}
	return err == nil
}
