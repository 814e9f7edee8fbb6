package dmx

import (
	"context"
	"sync"
	"time"

	"github.com/robmorgan/scorefollow/logger"
	"k8s.io/utils/clock"
)

// OLAClient is the interface for communicating with OLA. *gola.Client satisfies it.
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

// SendWorker sends OLA the current state across all universes once per tick until ctx is done. It
// closes the client on return.
func SendWorker(ctx context.Context, c clock.WithTicker, client OLAClient, tick time.Duration, state *State, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	log := logger.GetProjectLogger().WithField("backend", "dmx")
	t := c.NewTicker(tick)
	defer t.Stop()
	log.WithField("tick", tick).Debug("DMX worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("DMX worker shutdown")
			return ctx.Err()
		case <-t.C():
			for universe, values := range state.snapshot() {
				if _, err := client.SendDmx(universe, values); err != nil {
					log.WithError(err).WithField("universe", universe).Warn("Could not send DMX frame")
				}
			}
		}
	}
}
