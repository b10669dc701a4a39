package domain

// Config is everything the posting core needs from the config file.
type Config struct {
	KeychainService string
	SecretBackend   string
	Platforms       []PlatformConfig
}

// Platform returns the config group for p, if present.
func (c Config) Platform(p Platform) (PlatformConfig, bool) {
	for _, pc := range c.Platforms {
		if pc.Platform == p {
			return pc, true
		}
	}

	return PlatformConfig{}, false
}

// OnlyPlatforms keeps the groups whose platform is listed. An empty list
// keeps everything.
func (c Config) OnlyPlatforms(platforms []Platform) Config {
	if len(platforms) == 0 {
		return c
	}

	wanted := make(map[Platform]struct{}, len(platforms))
	for _, p := range platforms {
		wanted[p] = struct{}{}
	}

	filtered := c
	filtered.Platforms = nil
	for _, pc := range c.Platforms {
		if _, ok := wanted[pc.Platform]; ok {
			filtered.Platforms = append(filtered.Platforms, pc)
		}
	}

	return filtered
}
