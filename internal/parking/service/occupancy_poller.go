package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/openlots/parkd/internal/parking/store"
)

// OccupancyPoller periodically refreshes the free-slot gauges exported to
// Prometheus. It runs as a background goroutine and is safe to stop via its
// context or the Stop method.
//
// An interval of 0 disables polling entirely.
type OccupancyPoller struct {
	catalog  store.CatalogStore
	interval time.Duration
	logger   zerolog.Logger
	free     *prometheus.GaugeVec
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewOccupancyPoller creates a poller but does not start it. The gauge is
// registered on reg immediately so /metrics exposes it even before the
// first refresh.
func NewOccupancyPoller(
	catalog store.CatalogStore,
	interval time.Duration,
	reg prometheus.Registerer,
	logger zerolog.Logger,
) *OccupancyPoller {
	free := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parkd_free_slots",
		Help: "Free parking slots by vehicle type.",
	}, []string{"vehicle_type"})
	reg.MustRegister(free)

	return &OccupancyPoller{
		catalog:  catalog,
		interval: interval,
		logger:   logger,
		free:     free,
		done:     make(chan struct{}),
	}
}

// Start begins the background loop. It runs an immediate refresh on startup,
// then repeats on the configured interval. The loop exits when ctx is
// cancelled or Stop is called.
func (p *OccupancyPoller) Start(ctx context.Context) {
	if p.interval <= 0 {
		p.logger.Info().Msg("occupancy poller disabled (interval=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info().Dur("interval", p.interval).Msg("occupancy poller started")
}

// Stop signals the poller to exit and waits for it to finish.
func (p *OccupancyPoller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *OccupancyPoller) loop(ctx context.Context) {
	defer close(p.done)

	if err := p.Refresh(ctx); err != nil {
		p.logger.Error().Err(err).Msg("occupancy refresh")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Error().Err(err).Msg("occupancy refresh")
			}
		}
	}
}

// Refresh re-reads the free-slot counts and replaces the gauge values.
func (p *OccupancyPoller) Refresh(ctx context.Context) error {
	slots, err := p.catalog.ListAvailable(ctx)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, sl := range slots {
		counts[sl.TypeName]++
	}

	p.free.Reset()
	for typeName, n := range counts {
		p.free.WithLabelValues(typeName).Set(float64(n))
	}
	return nil
}
