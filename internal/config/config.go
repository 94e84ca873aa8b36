// Package config loads lg settings from config files, LG_* environment
// variables and flags through a package-level viper instance.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigDir is the per-project directory searched for config.yaml.
const ConfigDir = ".launchgate"

// Config keys
const (
	KeyJiraURL      = "jira.url"
	KeyJiraUsername = "jira.username"
	KeyJiraAPIToken = "jira.api_token"
	KeyJiraPageSize = "jira.page_size"
	KeyJiraTimeout  = "jira.timeout"

	KeyTemplatesProduct     = "templates.product"
	KeyTemplatesEngineering = "templates.engineering"

	KeyResolverLinkTypes       = "resolver.link_types"
	KeyResolverContainerSuffix = "resolver.container_suffix"
	KeyResolverConcurrency     = "resolver.concurrency"

	KeyWatchRefreshInterval = "watch.refresh_interval"
)

// DefaultProductTitles are the launch gates expected under every parent.
var DefaultProductTitles = []string{
	"Documentation",
	"Legal Review",
	"Security Review",
	"Privacy Review",
	"Support Readiness",
	"Marketing Announcement",
}

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	if path := findConfigFile(); path != "" {
		v.SetConfigFile(path)
	}

	// LG_JIRA_URL -> jira.url
	v.SetEnvPrefix("LG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Jira credentials also honour the unprefixed names other tools use.
	_ = v.BindEnv(KeyJiraURL, "LG_JIRA_URL", "JIRA_URL")
	_ = v.BindEnv(KeyJiraUsername, "LG_JIRA_USERNAME", "JIRA_USERNAME")
	_ = v.BindEnv(KeyJiraAPIToken, "LG_JIRA_API_TOKEN", "JIRA_API_TOKEN")

	setDefaults(v)

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("json", false)
	v.SetDefault("no-color", false)

	v.SetDefault(KeyJiraURL, "")
	v.SetDefault(KeyJiraUsername, "")
	v.SetDefault(KeyJiraAPIToken, "")
	v.SetDefault(KeyJiraPageSize, 100)
	v.SetDefault(KeyJiraTimeout, "30s")

	v.SetDefault(KeyTemplatesProduct, DefaultProductTitles)
	v.SetDefault(KeyTemplatesEngineering, []string{})

	v.SetDefault(KeyResolverLinkTypes, []string{"implement", "block"})
	v.SetDefault(KeyResolverContainerSuffix, "launch checklist items")
	v.SetDefault(KeyResolverConcurrency, 4)

	v.SetDefault(KeyWatchRefreshInterval, "60s")
}

// findConfigFile walks up from the working directory looking for
// .launchgate/config.yaml, then falls back to the user config directory.
func findConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; ; dir = filepath.Dir(dir) {
			path := filepath.Join(dir, ConfigDir, "config.yaml")
			if _, err := os.Stat(path); err == nil {
				return path
			}
			if dir == filepath.Dir(dir) {
				break
			}
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		path := filepath.Join(xdg, "launchgate", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "launchgate", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ResetForTesting drops the viper instance so tests start clean.
func ResetForTesting() {
	v = nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a string slice configuration value
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set sets a configuration value (used by flag overrides and tests)
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
