package am

import (
	"net/url"

	"github.com/teranos/sembrowse/errors"
)

// Validate checks that the configuration is valid.
// Corpus paths are checked for existence when the registry is loaded.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewConfigError("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		return errors.NewConfigError("server.shutdown_timeout_seconds must be >= 0, got %d", c.Server.ShutdownTimeoutSeconds)
	}

	seen := make(map[string]bool, len(c.Corpora))
	for i, corpus := range c.Corpora {
		if corpus.Name == "" {
			return errors.NewConfigError("corpora[%d].name cannot be empty", i)
		}
		if corpus.Path == "" {
			return errors.NewConfigError("corpora[%d].path cannot be empty (corpus %q)", i, corpus.Name)
		}
		if seen[corpus.Name] {
			return errors.NewConfigError("corpus name %q is used more than once", corpus.Name)
		}
		seen[corpus.Name] = true
	}

	// Usage limits only matter when collection runs
	if c.Usage.Enabled {
		if c.Usage.Concurrency < 1 {
			return errors.NewConfigError("usage.concurrency must be >= 1, got %d", c.Usage.Concurrency)
		}
		if c.Usage.RecentDays < 1 {
			return errors.NewConfigError("usage.recent_days must be >= 1, got %d", c.Usage.RecentDays)
		}
		if c.Usage.RequestsPerSecond < 0 {
			return errors.NewConfigError("usage.requests_per_second must be >= 0, got %g", c.Usage.RequestsPerSecond)
		}
	}

	if c.Honeycomb.TimeoutSeconds < 0 {
		return errors.NewConfigError("honeycomb.timeout_seconds must be >= 0, got %d", c.Honeycomb.TimeoutSeconds)
	}
	if c.Honeycomb.BaseURL != "" {
		u, err := url.Parse(c.Honeycomb.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.NewConfigError("honeycomb.base_url %q is not an absolute URL", c.Honeycomb.BaseURL)
		}
	}

	return nil
}
