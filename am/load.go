package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github.com/teranos/sembrowse/errors"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SEMBROWSE_SERVER_PORT.
	EnvPrefix = "SEMBROWSE"
	// ProjectConfigName is searched for from the working directory upwards.
	ProjectConfigName = "sembrowse.toml"
)

// SystemConfigPath is the lowest-precedence config file.
var SystemConfigPath = "/etc/sembrowse/config.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// viperErr is the first config file that existed but could not be merged.
var viperErr error

// Load reads the sembrowse configuration using Viper.
// Precedence (lowest to highest): defaults < system < user < project < env vars.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()
	if viperErr != nil {
		return nil, viperErr
	}
	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of
// defaults only.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	settings, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, errors.WrapConfig(err, "failed to merge "+configPath)
	}
	return LoadWithViper(v)
}

// LoadDotEnv loads KEY=value pairs from .env files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := gotenv.Load(path); err != nil {
			return errors.WrapConfig(err, "failed to load "+path)
		}
		ConfigSources[dotEnvMarker] = SourceInfo{Source: SourceDotEnv, Path: path}
	}
	return nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	viperErr = nil
	ConfigSources = make(map[string]SourceInfo)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindSensitiveEnvVars(v)

	SetDefaults(v)
	viperErr = mergeConfigFiles(v)

	viperInstance = v
	return v
}

// configPaths lists candidate config files in precedence order with the
// source each one represents.
func configPaths() []SourceInfo {
	paths := []SourceInfo{{Source: SourceSystem, Path: SystemConfigPath}}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, SourceInfo{Source: SourceUser, Path: filepath.Join(home, ".sembrowse", "config.toml")})
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, SourceInfo{Source: SourceProject, Path: project})
	}
	return paths
}

// findProjectConfig searches for sembrowse.toml by walking up the directory
// tree. Returns "" when none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each existing config file into v's config layer,
// so environment variables keep precedence over every file. Missing files
// are skipped; a file that exists but cannot be read or merged stops the
// merge with a configuration error naming it.
func mergeConfigFiles(v *viper.Viper) error {
	for _, candidate := range configPaths() {
		if _, err := os.Stat(candidate.Path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.WrapConfig(err, "failed to stat config file "+candidate.Path)
		}
		settings, err := readConfigFile(candidate.Path)
		if err != nil {
			return errors.WithHintf(err, "fix or remove %s (%s config)", candidate.Path, candidate.Source)
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return errors.WrapConfig(err, "failed to merge config file "+candidate.Path)
		}
		recordSources(settings, "", candidate)
	}
	return nil
}

func readConfigFile(path string) (map[string]interface{}, error) {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return nil, errors.WrapConfig(err, "failed to read config file "+path)
	}
	settings := tmp.AllSettings()
	resolveCorpusPaths(settings, filepath.Dir(path))
	return settings, nil
}

// resolveCorpusPaths makes relative corpus paths relative to the config
// file that declared them.
func resolveCorpusPaths(settings map[string]interface{}, dir string) {
	corpora, ok := settings["corpora"].([]interface{})
	if !ok {
		return
	}
	for _, c := range corpora {
		entry, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		path, ok := entry["path"].(string)
		if !ok || path == "" || filepath.IsAbs(path) {
			continue
		}
		entry["path"] = filepath.Join(dir, path)
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}
