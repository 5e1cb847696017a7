package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeout)

	v.SetDefault("honeycomb.api_key", "")
	v.SetDefault("honeycomb.base_url", DefaultHoneycombBaseURL)
	v.SetDefault("honeycomb.timeout_seconds", DefaultHoneycombTimeout)
	v.SetDefault("honeycomb.allow_private", false)

	v.SetDefault("usage.enabled", true)
	v.SetDefault("usage.concurrency", DefaultUsageConcurrency)
	v.SetDefault("usage.recent_days", DefaultUsageRecentDays)
	v.SetDefault("usage.requests_per_second", DefaultRequestsPerSecond)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindSensitiveEnvVars binds secrets to their conventional variable names
// in addition to the SEMBROWSE_ prefixed ones.
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("honeycomb.api_key", "SEMBROWSE_HONEYCOMB_API_KEY", "HONEYCOMB_API_KEY")
}

// Address returns host:port for the HTTP listener
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: %s, Corpora: %d, Usage: {Enabled: %t, Concurrency: %d}}",
		c.Address(), len(c.Corpora), c.Usage.Enabled, c.Usage.Concurrency)
}
