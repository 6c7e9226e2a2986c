package utils

import (
	"regexp"
	"strings"
	"time"
)

var nonBodyChars = regexp.MustCompile(`[^0-9a-zA-Z\x{4e00}-\x{9fa5} ]`)

// TruncateDescription shortens a free-text description to the provider's
// limit, appending an ellipsis when text was cut.
func TruncateDescription(description string, maxLen int) string {
	if maxLen <= 0 || len([]rune(description)) <= maxLen {
		return description
	}
	if maxLen <= 3 {
		return string([]rune(description)[:maxLen])
	}
	return string([]rune(description)[:maxLen-3]) + "..."
}

// SanitizeDescription additionally strips symbols some gateways reject.
func SanitizeDescription(description string, maxLen int) string {
	return TruncateDescription(nonBodyChars.ReplaceAllString(description, ""), maxLen)
}

// FormatExpireTime renders now+validity in the layout the gateway expects.
// A zero or negative validity falls back to 30 minutes.
func FormatExpireTime(validity time.Duration, layout string) string {
	if validity <= 0 {
		validity = 30 * time.Minute
	}
	return time.Now().Add(validity).Format(layout)
}

// IsSandboxEndpoint reports whether a configured gateway service URL points
// at a sandbox/dev environment, by marker substring.
func IsSandboxEndpoint(serviceUrl, marker string) bool {
	return marker != "" && strings.Contains(serviceUrl, marker)
}
