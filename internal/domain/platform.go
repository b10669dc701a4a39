package domain

import (
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformMastodon Platform = "mastodon"
	PlatformBluesky  Platform = "bluesky"
	PlatformTwitter  Platform = "twitter"
)

// Platforms lists the supported platforms in reporting order.
func Platforms() []Platform {
	return []Platform{PlatformMastodon, PlatformBluesky, PlatformTwitter}
}

func ParsePlatform(raw string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(raw))); p {
	case PlatformMastodon, PlatformBluesky, PlatformTwitter:
		return p, nil
	case "x":
		return PlatformTwitter, nil
	default:
		return "", fmt.Errorf("unsupported platform %q", raw)
	}
}

func (p Platform) DisplayName() string {
	switch p {
	case PlatformMastodon:
		return "Mastodon"
	case PlatformBluesky:
		return "Bluesky"
	case PlatformTwitter:
		return "Twitter"
	default:
		return string(p)
	}
}
