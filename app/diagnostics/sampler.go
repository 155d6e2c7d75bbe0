package diagnostics

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/NetScout-Go/WiFiScope/app/history"
	"github.com/NetScout-Go/WiFiScope/app/runner"
)

const (
	interfacesTimeout = 5 * time.Second
	internetTarget    = "1.1.1.1"
	lossWindowSize    = 30
)

// Sampler turns one interface snapshot plus reachability probes into a
// diagnostics Snapshot. It carries jitter and loss state across cycles
// for process lifetime; nothing is reset on reconnect.
type Sampler struct {
	run         runner.Runner
	resolve     ResolveFunc
	connections ConnFunc
	log         *logrus.Entry

	prevRouterPing   *float64
	prevInternetPing *float64
	routerWindow     *history.Window
	internetWindow   *history.Window
}

func NewSampler(run runner.Runner) *Sampler {
	return &Sampler{
		run:            run,
		resolve:        defaultResolve,
		connections:    defaultConnections,
		log:            logrus.WithField("component", "diagnostics"),
		routerWindow:   history.NewWindow(lossWindowSize),
		internetWindow: history.NewWindow(lossWindowSize),
	}
}

// Collect performs one diagnostics cycle. Each measurement degrades to
// its absent/zero value on failure without aborting the cycle.
func (s *Sampler) Collect(ctx context.Context) Snapshot {
	info := s.interfaceInfo(ctx)

	gateway := ""
	if info.Connected {
		gateway = s.gateway(ctx)
	}

	var routerPing, internetPing *float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if gateway != "" {
			routerPing = s.ping(gctx, gateway)
		}
		return nil
	})
	g.Go(func() error {
		if info.Connected {
			internetPing = s.ping(gctx, internetTarget)
		}
		return nil
	})
	_ = g.Wait()

	routerJitter := jitter(routerPing, s.prevRouterPing)
	s.prevRouterPing = routerPing
	internetJitter := jitter(internetPing, s.prevInternetPing)
	s.prevInternetPing = internetPing

	s.routerWindow.Observe(routerPing != nil)
	s.internetWindow.Observe(internetPing != nil)

	var dnsTime *float64
	if info.Connected {
		dnsTime = s.dnsLookupTime(ctx)
	}

	tcp := s.tcpConnections(ctx)

	return Snapshot{
		InterfaceInfo:  info,
		Gateway:        gateway,
		RouterPing:     routerPing,
		InternetPing:   internetPing,
		RouterJitter:   routerJitter,
		InternetJitter: internetJitter,
		RouterLoss:     s.routerWindow.LossPercent(),
		InternetLoss:   s.internetWindow.LossPercent(),
		DNSLookup:      dnsTime,
		TCPEstablished: tcp.established,
		TCPCloseWait:   tcp.closeWait,
		TCPTimeWait:    tcp.timeWait,
		TCPTotal:       tcp.total,
	}
}

func (s *Sampler) interfaceInfo(ctx context.Context) InterfaceInfo {
	raw, err := s.run.Run(ctx, interfacesTimeout, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		s.log.WithError(err).Warn("interface status unavailable")
		return defaultInterfaceInfo()
	}
	return ParseInterfaces(raw)
}

// jitter is the absolute difference between two consecutive successful
// probes; absent when either probe had no reply.
func jitter(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	j := math.Round(math.Abs(*current-*previous)*10) / 10
	return &j
}
