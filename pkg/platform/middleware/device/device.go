// Package device turns a raw User-Agent header into the short label shown
// against an auth session ("Chrome 120 on Windows 10").
package device

import (
	"context"
	"strings"

	"github.com/mssola/useragent"

	"memberportal/pkg/requestcontext"
)

const unknownLabel = "Unknown device"

// Label describes the browser and platform of a User-Agent string.
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknownLabel
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	if ua.Bot() {
		return "Bot: " + name
	}

	browser := name
	if name != "" && version != "" {
		major, _, _ := strings.Cut(version, ".")
		browser = name + " " + major
	}

	os := ua.OS()
	if ua.Mobile() && os != "" {
		os += " (mobile)"
	}
	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	}
	return unknownLabel
}

// FromContext labels the User-Agent captured by the metadata middleware.
func FromContext(ctx context.Context) string {
	return Label(requestcontext.UserAgent(ctx))
}
