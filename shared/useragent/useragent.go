package useragent

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

var tabletMarkers = []string{"ipad", "tablet", "kindle", "playbook", "nexus 7", "nexus 9", "nexus 10", "sm-t"}

// Device describes the client that submitted a check-in.
type Device struct {
	Type    string `json:"type"`
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

// Parse classifies a User-Agent header. Empty headers yield DeviceUnknown.
func Parse(header string) Device {
	header = strings.TrimSpace(header)
	if header == "" {
		return Device{Type: DeviceUnknown}
	}

	parser := ua.New(header)
	browser, _ := parser.Browser()
	osInfo := parser.OSInfo()

	device := Device{
		OS:      strings.TrimSpace(osInfo.Name + " " + osInfo.Version),
		Browser: browser,
	}

	lower := strings.ToLower(header)

	switch {
	case parser.Bot():
		device.Type = DeviceBot
	case containsAny(lower, tabletMarkers):
		device.Type = DeviceTablet
	case parser.Mobile():
		device.Type = DeviceMobile
	default:
		device.Type = DeviceDesktop
	}

	return device
}

// Source is the short label stored with a registration, e.g. "mobile/Safari".
func (d Device) Source() string {
	if d.Browser == "" {
		return d.Type
	}

	return d.Type + "/" + d.Browser
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}
