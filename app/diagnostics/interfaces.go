package diagnostics

import (
	"regexp"
	"strconv"
	"strings"
)

// No live noise-floor measurement is available from the interface status
// output, so SNR is derived against an assumed constant floor.
const assumedNoiseFloor = -90

var (
	stateRe   = regexp.MustCompile(`State\s*:\s*(.*)`)
	ifSSIDRe  = regexp.MustCompile(`(?m)^\s*SSID\s*:\s*(.+)$`)
	ifBSSIDRe = regexp.MustCompile(`BSSID\s*:\s*([0-9a-fA-F:]+)`)
	ifChanRe  = regexp.MustCompile(`Channel\s*:\s*(\d+)`)
	radioRe   = regexp.MustCompile(`Radio type\s*:\s*(.*)`)
	rxRateRe  = regexp.MustCompile(`Receive rate\s*\(Mbps\)\s*:\s*([\d.]+)`)
	txRateRe  = regexp.MustCompile(`Transmit rate\s*\(Mbps\)\s*:\s*([\d.]+)`)
	ifSigRe   = regexp.MustCompile(`Signal\s*:\s*(\d+)%`)
	authRe    = regexp.MustCompile(`Authentication\s*:\s*(.*)`)
)

// radio types that imply a 5 GHz capable mode; channel numbering still
// overrides this heuristic below
var fiveGHzRadioTypes = []string{"802.11a", "802.11ac", "802.11ax", "802.11be"}

// ParseInterfaces extracts one InterfaceInfo from `netsh wlan show
// interfaces` output. Each attribute is matched independently, so one
// missing field never blocks the rest.
func ParseInterfaces(raw string) InterfaceInfo {
	info := defaultInterfaceInfo()
	if raw == "" {
		return info
	}

	if m := stateRe.FindStringSubmatch(raw); m != nil {
		state := strings.ToLower(m[1])
		if strings.Contains(state, "connected") && !strings.Contains(state, "disconnected") {
			info.Connected = true
		}
	}

	if m := ifSSIDRe.FindStringSubmatch(raw); m != nil {
		info.SSID = strings.TrimSpace(m[1])
	}
	if m := ifBSSIDRe.FindStringSubmatch(raw); m != nil {
		info.BSSID = strings.TrimSpace(m[1])
	}
	if m := ifChanRe.FindStringSubmatch(raw); m != nil {
		info.Channel, _ = strconv.Atoi(m[1])
	}

	if m := radioRe.FindStringSubmatch(raw); m != nil {
		info.RadioType = strings.TrimSpace(m[1])
		info.Band = "2.4 GHz"
		for _, rt := range fiveGHzRadioTypes {
			if strings.Contains(info.RadioType, rt) {
				info.Band = "5 GHz"
				break
			}
		}
	}
	// channel numbering is authoritative: anything above 14 is 5 GHz
	if info.Channel > 14 {
		info.Band = "5 GHz"
	}

	if m := rxRateRe.FindStringSubmatch(raw); m != nil {
		info.RxRate, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := txRateRe.FindStringSubmatch(raw); m != nil {
		info.TxRate, _ = strconv.ParseFloat(m[1], 64)
	}

	if m := ifSigRe.FindStringSubmatch(raw); m != nil {
		pct, _ := strconv.Atoi(m[1])
		info.SignalPercent = pct
		info.RSSI = pct/2 - 100
		info.Noise = assumedNoiseFloor
		info.SNR = info.RSSI - info.Noise
	}

	if m := authRe.FindStringSubmatch(raw); m != nil {
		info.Auth = strings.TrimSpace(m[1])
	}

	return info
}
