package utils

import (
	"strings"

	"github.com/mssola/user_agent"
)

// DeviceInfo describes the client that performed an authentication request
type DeviceInfo struct {
	DeviceType string `json:"device_type"`
	OS         string `json:"os"`
	Browser    string `json:"browser"`
}

// ParseUserAgent extracts device information from a User-Agent header
func ParseUserAgent(uaString string) DeviceInfo {
	if strings.TrimSpace(uaString) == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "unknown", Browser: "unknown"}
	}

	ua := user_agent.New(uaString)

	deviceType := "desktop"
	if ua.Mobile() {
		deviceType = "mobile"
	} else if ua.Bot() {
		deviceType = "bot"
	}

	browser, version := ua.Browser()
	if browser == "" {
		browser = "unknown"
	} else if version != "" {
		browser = browser + " " + version
	}

	os := ua.OS()
	if os == "" {
		os = "unknown"
	}

	return DeviceInfo{
		DeviceType: deviceType,
		OS:         os,
		Browser:    browser,
	}
}
