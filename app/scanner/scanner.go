// Package scanner discovers nearby wireless networks by parsing the
// output of the OS wireless scan command.
package scanner

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NetScout-Go/WiFiScope/app/runner"
)

const scanTimeout = 10 * time.Second

// AccessPoint is one discovered radio. Several access points may share
// one SSID; DedupBySSID collapses them to one entry per logical network.
type AccessPoint struct {
	SSID          string `json:"ssid"`
	BSSID         string `json:"bssid"`
	RSSI          int    `json:"rssi"`
	SignalPercent int    `json:"signal_percent"`
	Channel       int    `json:"channel"`
}

var (
	ssidRe    = regexp.MustCompile(`SSID\s+\d+\s*:\s*(.*)`)
	bssidRe   = regexp.MustCompile(`BSSID\s+\d+\s*:\s*(.*)`)
	signalRe  = regexp.MustCompile(`Signal\s*:\s*(\d+)%`)
	channelRe = regexp.MustCompile(`Channel\s*:\s*(\d+)`)
)

// Parse converts `netsh wlan show networks mode=bssid` output into one
// AccessPoint per BSSID line. An SSID header carries forward as the
// network name for every BSSID listed under it; a BSSID entry is flushed
// when the next SSID or BSSID header arrives, or at end of input.
// Missing fields keep their defaults (-100 dBm, 0%, channel 0).
func Parse(raw string) []AccessPoint {
	var (
		aps     []AccessPoint
		current *AccessPoint
	)
	ssid := "Hidden"

	flush := func() {
		if current != nil && current.BSSID != "" {
			aps = append(aps, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SSID") && !strings.Contains(line, "BSSID"):
			flush()
			ssid = "Hidden"
			if m := ssidRe.FindStringSubmatch(line); m != nil {
				ssid = strings.TrimSpace(m[1])
			}
		case strings.HasPrefix(line, "BSSID"):
			flush()
			bssid := ""
			if m := bssidRe.FindStringSubmatch(line); m != nil {
				bssid = strings.TrimSpace(m[1])
			}
			current = &AccessPoint{
				SSID:          ssid,
				BSSID:         bssid,
				RSSI:          -100,
				SignalPercent: 0,
				Channel:       0,
			}
		case strings.HasPrefix(line, "Signal") && current != nil:
			if m := signalRe.FindStringSubmatch(line); m != nil {
				pct, _ := strconv.Atoi(m[1])
				current.SignalPercent = pct
				current.RSSI = pct/2 - 100
			}
		case strings.HasPrefix(line, "Channel") && current != nil:
			if m := channelRe.FindStringSubmatch(line); m != nil {
				current.Channel, _ = strconv.Atoi(m[1])
			}
		}
	}
	flush()
	return aps
}

// DedupBySSID keeps the strongest-signal access point per SSID, in first-seen
// SSID order. Routers often broadcast several BSSIDs (2.4 GHz, 5 GHz, mesh
// nodes); the discovery feed shows one entry per logical network.
func DedupBySSID(aps []AccessPoint) []AccessPoint {
	picked := make(map[string]AccessPoint, len(aps))
	var order []string
	for _, ap := range aps {
		ssid := ap.SSID
		if ssid == "" {
			ssid = "Hidden"
		}
		prev, ok := picked[ssid]
		if !ok {
			order = append(order, ssid)
		}
		// strict greater-than so ties keep the first occurrence
		if !ok || ap.RSSI > prev.RSSI {
			picked[ssid] = ap
		}
	}

	out := make([]AccessPoint, 0, len(order))
	for _, ssid := range order {
		out = append(out, picked[ssid])
	}
	return out
}

// Scanner runs wireless scans through a command runner.
type Scanner struct {
	run runner.Runner
	log *logrus.Entry
}

func New(run runner.Runner) *Scanner {
	return &Scanner{
		run: run,
		log: logrus.WithField("component", "scanner"),
	}
}

// Scan performs one discovery pass. A failed or missing scan tool yields
// an empty list, never an error; the next cycle simply tries again.
func (s *Scanner) Scan(ctx context.Context) []AccessPoint {
	raw, err := s.run.Run(ctx, scanTimeout, "netsh", "wlan", "show", "networks", "mode=bssid")
	if err != nil {
		s.log.WithError(err).Warn("wireless scan failed")
		return nil
	}
	return DedupBySSID(Parse(raw))
}
