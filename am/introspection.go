package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/sembrowse/config.toml
	SourceUser        ConfigSource = "user"        // ~/.sembrowse/config.toml
	SourceProject     ConfigSource = "project"     // nearest sembrowse.toml
	SourceDotEnv      ConfigSource = "dotenv"      // .env, surfaced through environment variables
	SourceEnvironment ConfigSource = "environment" // SEMBROWSE_* env vars
)

// dotEnvMarker is the ConfigSources key recording which .env file was loaded.
const dotEnvMarker = "\x00dotenv"

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource `json:"source"`
	Path   string       `json:"path,omitempty"` // File path or environment variable name
}

// ConfigSources maps a dotted key to the last file that set it.
// Filled while config files are merged.
var ConfigSources = make(map[string]SourceInfo)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspect returns every effective setting with its origin, sorted by key.
// Secrets are redacted.
func Introspect() []SettingInfo {
	v := GetViper()
	var settings []SettingInfo
	flattenSettingsWithSources(v.AllSettings(), "", &settings)
	return settings
}

func recordSources(settings map[string]interface{}, prefix string, source SourceInfo) {
	for key, value := range settings {
		fullKey := joinKey(prefix, key)
		if nested, ok := value.(map[string]interface{}); ok {
			recordSources(nested, fullKey, source)
			continue
		}
		ConfigSources[fullKey] = source
	}
}

func flattenSettingsWithSources(settings map[string]interface{}, prefix string, out *[]SettingInfo) {
	// Sort keys for deterministic iteration
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := joinKey(prefix, key)

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nested, fullKey, out)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[fullKey]; ok {
			info = si
		}
		if env, ok := envOverride(fullKey); ok {
			info = env
		}
		if isSecret(fullKey) && value != "" {
			value = RedactedValue
		}

		*out = append(*out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

func envOverride(key string) (SourceInfo, bool) {
	names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if key == "honeycomb.api_key" {
		names = append(names, "HONEYCOMB_API_KEY")
	}
	for _, name := range names {
		if os.Getenv(name) != "" {
			source := SourceEnvironment
			if dotenv, ok := ConfigSources[dotEnvMarker]; ok && dotEnvDefines(dotenv.Path, name) {
				source = SourceDotEnv
			}
			return SourceInfo{Source: source, Path: name}, true
		}
	}
	return SourceInfo{}, false
}

func isSecret(key string) bool {
	return strings.HasSuffix(key, "api_key")
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
