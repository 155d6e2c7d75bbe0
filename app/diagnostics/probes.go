package diagnostics

import (
	"context"
	"math"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
)

const (
	pingTimeout = 5 * time.Second
	pingWaitMs  = "1500"
	dnsHost     = "google.com"
)

var pingTimeRe = regexp.MustCompile(`time=(\d+)ms`)

// ping probes a host once and returns the round-trip time in ms, or nil
// when there was no reply.
func (s *Sampler) ping(ctx context.Context, host string) *float64 {
	out, err := s.run.Run(ctx, pingTimeout, "ping", "-n", "1", "-w", pingWaitMs, host)
	if err != nil {
		s.log.WithError(err).WithField("host", host).Debug("ping probe failed")
		return nil
	}
	if m := pingTimeRe.FindStringSubmatch(out); m != nil {
		rtt, _ := strconv.ParseFloat(m[1], 64)
		return &rtt
	}
	if strings.Contains(out, "time<1ms") {
		rtt := 0.5
		return &rtt
	}
	return nil
}

// ResolveFunc performs one name resolution; only its duration matters.
type ResolveFunc func(ctx context.Context, host string) error

func defaultResolve(ctx context.Context, host string) error {
	_, err := net.DefaultResolver.LookupHost(ctx, host)
	return err
}

// dnsLookupTime measures one resolution of a fixed hostname in ms.
func (s *Sampler) dnsLookupTime(ctx context.Context) *float64 {
	start := time.Now()
	if err := s.resolve(ctx, dnsHost); err != nil {
		return nil
	}
	ms := math.Round(float64(time.Since(start).Microseconds())/100) / 10
	return &ms
}

// ConnFunc enumerates the host's current TCP connections.
type ConnFunc func(ctx context.Context) ([]psnet.ConnectionStat, error)

func defaultConnections(ctx context.Context) ([]psnet.ConnectionStat, error) {
	return psnet.ConnectionsWithContext(ctx, "tcp")
}

type tcpCounts struct {
	established int
	closeWait   int
	timeWait    int
	total       int
}

// tcpConnections tallies current TCP connections by state. Enumeration
// failure yields zero counts.
func (s *Sampler) tcpConnections(ctx context.Context) tcpCounts {
	var counts tcpCounts
	conns, err := s.connections(ctx)
	if err != nil {
		s.log.WithError(err).Debug("tcp connection enumeration failed")
		return counts
	}
	for _, c := range conns {
		switch strings.ToUpper(c.Status) {
		case "ESTABLISHED":
			counts.established++
		case "CLOSE_WAIT":
			counts.closeWait++
		case "TIME_WAIT":
			counts.timeWait++
		}
	}
	counts.total = counts.established + counts.closeWait + counts.timeWait
	return counts
}
