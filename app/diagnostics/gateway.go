package diagnostics

import (
	"context"
	"regexp"
	"strings"
	"time"
)

const gatewayTimeout = 5 * time.Second

var (
	ifaceSectionRe   = regexp.MustCompile(`Configuration for interface\s+`)
	wirelessIfaceRe  = regexp.MustCompile(`(?i)^"?(Wi-Fi|WiFi|Wireless|WLAN)`)
	sectionGatewayRe = regexp.MustCompile(`Default Gateway:\s+([\d.]+)`)
	adapterGatewayRe = regexp.MustCompile(`Default Gateway[ .]*:\s*([\d.]+)`)
)

// gateway resolves the default gateway address of the wireless interface,
// first from the interface address configuration and then from the
// adapter listing as a fallback. Returns "" when undeterminable.
func (s *Sampler) gateway(ctx context.Context) string {
	if raw, err := s.run.Run(ctx, gatewayTimeout, "netsh", "interface", "ipv4", "show", "addresses"); err == nil {
		for _, section := range ifaceSectionRe.Split(raw, -1) {
			if !wirelessIfaceRe.MatchString(section) {
				continue
			}
			if m := sectionGatewayRe.FindStringSubmatch(section); m != nil {
				return m[1]
			}
		}
	}

	raw, err := s.run.Run(ctx, gatewayTimeout, "ipconfig")
	if err != nil {
		return ""
	}
	return gatewayFromAdapterList(raw)
}

// gatewayFromAdapterList scans `ipconfig` output for the wireless adapter
// section and pulls its default gateway.
func gatewayFromAdapterList(raw string) string {
	inWireless := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// adapter headers are unindented; everything under one is indented
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			inWireless = strings.Contains(trimmed, "Wireless") || strings.Contains(trimmed, "Wi-Fi")
			continue
		}
		if inWireless && strings.Contains(trimmed, "Default Gateway") {
			if m := adapterGatewayRe.FindStringSubmatch(trimmed); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
