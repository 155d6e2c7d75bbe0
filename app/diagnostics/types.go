// Package diagnostics samples the active wireless interface and derives
// connection-quality metrics from reachability probes.
package diagnostics

// InterfaceInfo is the parsed state of the active wireless interface.
// When Connected is false the other fields hold their defaults.
type InterfaceInfo struct {
	Connected     bool    `json:"connected"`
	SSID          string  `json:"ssid"`
	BSSID         string  `json:"bssid"`
	Channel       int     `json:"channel"`
	Band          string  `json:"band"`
	RxRate        float64 `json:"rx_rate"`
	TxRate        float64 `json:"tx_rate"`
	SignalPercent int     `json:"signal_percent"`
	RSSI          int     `json:"rssi"`
	SNR           int     `json:"snr"`
	Noise         int     `json:"noise"`
	Auth          string  `json:"auth"`
	RadioType     string  `json:"radio_type"`
}

func defaultInterfaceInfo() InterfaceInfo {
	return InterfaceInfo{RSSI: -100, Noise: assumedNoiseFloor}
}

// Snapshot is one diagnostics cycle's full result. Pointer fields are
// nil when the measurement was unavailable that cycle; they marshal as
// JSON null so the dashboard can show gaps rather than zeros.
type Snapshot struct {
	InterfaceInfo
	Gateway        string   `json:"gateway"`
	RouterPing     *float64 `json:"router_ping"`
	InternetPing   *float64 `json:"internet_ping"`
	RouterJitter   *float64 `json:"router_jitter"`
	InternetJitter *float64 `json:"internet_jitter"`
	RouterLoss     float64  `json:"router_loss"`
	InternetLoss   float64  `json:"internet_loss"`
	DNSLookup      *float64 `json:"dns_lookup"`
	TCPEstablished int      `json:"tcp_established"`
	TCPCloseWait   int      `json:"tcp_close_wait"`
	TCPTimeWait    int      `json:"tcp_time_wait"`
	TCPTotal       int      `json:"tcp_total"`
}

// MetricValues maps the snapshot onto the rolling-history key set.
func (s Snapshot) MetricValues() map[string]*float64 {
	f := func(v float64) *float64 { return &v }
	return map[string]*float64{
		"signal_percent":  f(float64(s.SignalPercent)),
		"rssi":            f(float64(s.RSSI)),
		"snr":             f(float64(s.SNR)),
		"noise":           f(float64(s.Noise)),
		"rx_rate":         f(s.RxRate),
		"tx_rate":         f(s.TxRate),
		"router_ping":     s.RouterPing,
		"internet_ping":   s.InternetPing,
		"router_jitter":   s.RouterJitter,
		"internet_jitter": s.InternetJitter,
		"router_loss":     f(s.RouterLoss),
		"internet_loss":   f(s.InternetLoss),
		"dns_lookup":      s.DNSLookup,
		"tcp_established": f(float64(s.TCPEstablished)),
		"tcp_close_wait":  f(float64(s.TCPCloseWait)),
	}
}
