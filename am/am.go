// Package am ("as configured") loads sembrowse configuration from TOML
// files, .env and environment variables using viper.
package am

// Config represents the sembrowse configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server" toml:"server" yaml:"server" json:"server"`
	Honeycomb HoneycombConfig `mapstructure:"honeycomb" toml:"honeycomb" yaml:"honeycomb" json:"honeycomb"`
	Usage     UsageConfig     `mapstructure:"usage" toml:"usage" yaml:"usage" json:"usage"`
	Log       LogConfig       `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Corpora   []CorpusConfig  `mapstructure:"corpora" toml:"corpora" yaml:"corpora" json:"corpora"`
}

// ServerConfig configures the browse web server
type ServerConfig struct {
	Host                   string `mapstructure:"host" toml:"host" yaml:"host" json:"host"`
	Port                   int    `mapstructure:"port" toml:"port" yaml:"port" json:"port"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds"`
}

// HoneycombConfig configures the usage backend
type HoneycombConfig struct {
	APIKey         string `mapstructure:"api_key" toml:"api_key" yaml:"api_key" json:"api_key"`
	BaseURL        string `mapstructure:"base_url" toml:"base_url" yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
	AllowPrivate   bool   `mapstructure:"allow_private" toml:"allow_private" yaml:"allow_private" json:"allow_private"` // permit base_url on a private network (local proxy)
}

// UsageConfig configures dataset column collection
type UsageConfig struct {
	Enabled           bool    `mapstructure:"enabled" toml:"enabled" yaml:"enabled" json:"enabled"`
	Concurrency       int     `mapstructure:"concurrency" toml:"concurrency" yaml:"concurrency" json:"concurrency"`
	RecentDays        int     `mapstructure:"recent_days" toml:"recent_days" yaml:"recent_days" json:"recent_days"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"` // 0 = unlimited
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// CorpusConfig names one registry root
type CorpusConfig struct {
	Name     string `mapstructure:"name" toml:"name" yaml:"name" json:"name"`
	Path     string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
	Requires string `mapstructure:"requires" toml:"requires,omitempty" yaml:"requires,omitempty" json:"requires,omitempty"` // semver constraint on the registry manifest
}

// Defaults
const (
	DefaultServerHost        = "127.0.0.1"
	DefaultServerPort        = 3000
	DefaultShutdownTimeout   = 10
	DefaultHoneycombBaseURL  = "https://api.honeycomb.io/1/"
	DefaultHoneycombTimeout  = 30
	DefaultUsageConcurrency  = 8
	DefaultUsageRecentDays   = 60
	DefaultRequestsPerSecond = 10.0
)

// RedactedValue replaces secrets in rendered configuration.
const RedactedValue = "********"

// Redacted returns a copy with secrets masked, for display.
func (c Config) Redacted() Config {
	if c.Honeycomb.APIKey != "" {
		c.Honeycomb.APIKey = RedactedValue
	}
	c.Corpora = append([]CorpusConfig(nil), c.Corpora...)
	return c
}
