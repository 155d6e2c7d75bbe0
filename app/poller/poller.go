// Package poller drives the discovery and diagnostics pipelines on fixed
// intervals.
package poller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NetScout-Go/WiFiScope/app/diagnostics"
	"github.com/NetScout-Go/WiFiScope/app/scanner"
	"github.com/NetScout-Go/WiFiScope/app/store"
)

const (
	// NetworkInterval is the discovery sampling period.
	NetworkInterval = 5 * time.Second
	// DiagnosticsInterval is the connection-quality sampling period.
	DiagnosticsInterval = 2 * time.Second
)

// Poller runs the two sampling loops against one Store. The loops are
// independent: discovery and diagnostics cycles are not synchronized.
type Poller struct {
	scanner *scanner.Scanner
	sampler *diagnostics.Sampler
	store   *store.Store
	log     *logrus.Entry

	networkInterval     time.Duration
	diagnosticsInterval time.Duration
}

func New(sc *scanner.Scanner, sa *diagnostics.Sampler, st *store.Store) *Poller {
	return &Poller{
		scanner:             sc,
		sampler:             sa,
		store:               st,
		log:                 logrus.WithField("component", "poller"),
		networkInterval:     NetworkInterval,
		diagnosticsInterval: DiagnosticsInterval,
	}
}

// Start launches both loops. They run until ctx is cancelled; a failing
// cycle is logged and the loop proceeds after its normal sleep.
func (p *Poller) Start(ctx context.Context) {
	go p.loop(ctx, "networks", p.networkInterval, func(ctx context.Context) {
		p.store.PublishNetworks(p.scanner.Scan(ctx))
	})
	go p.loop(ctx, "diagnostics", p.diagnosticsInterval, func(ctx context.Context) {
		p.store.PublishDiagnostics(p.sampler.Collect(ctx))
	})
}

func (p *Poller) loop(ctx context.Context, name string, interval time.Duration, cycle func(context.Context)) {
	p.log.WithField("loop", name).WithField("interval", interval).Info("polling started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.runCycle(ctx, name, cycle)
		select {
		case <-ctx.Done():
			p.log.WithField("loop", name).Info("polling stopped")
			return
		case <-ticker.C:
		}
	}
}

// runCycle isolates one cycle so that an unexpected panic anywhere in
// the pipeline is swallowed and the loop keeps running.
func (p *Poller) runCycle(ctx context.Context, name string, cycle func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("loop", name).WithField("panic", r).Error("cycle failed")
		}
	}()
	cycle(ctx)
}
