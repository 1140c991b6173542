// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for mira.
type Config struct {
	OwnerID            string `mapstructure:"owner_id" yaml:"owner_id"`
	PreferredLanguage  string `mapstructure:"preferred_language" yaml:"preferred_language"`
	DataDir            string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel           string `mapstructure:"log_level" yaml:"log_level"`
	LogFile            string `mapstructure:"log_file" yaml:"log_file"`
	DefaultAge         int    `mapstructure:"default_age" yaml:"default_age"`
	AppearanceEndpoint string `mapstructure:"appearance_endpoint" yaml:"appearance_endpoint"`
	MCPPort            int    `mapstructure:"mcp_port" yaml:"mcp_port"`
}

// envKeys lists every key bound to a MIRA_* environment variable.
var envKeys = []string{
	"owner_id",
	"preferred_language",
	"data_dir",
	"log_level",
	"log_file",
	"default_age",
	"appearance_endpoint",
	"mcp_port",
}

// Default returns a config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		PreferredLanguage: "en",
		DataDir:           ".mira",
		LogLevel:          "info",
		DefaultAge:        5,
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("mira")

	// owner_id has no default - onboarding refuses to submit without it
	def := Default()
	v.SetDefault("preferred_language", def.PreferredLanguage)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("default_age", def.DefaultAge)
	v.SetDefault("appearance_endpoint", "")
	v.SetDefault("mcp_port", 0)

	v.SetEnvPrefix("MIRA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so ints parse from env and Unmarshal sees every key
	for _, key := range envKeys {
		if err := v.BindEnv(key, "MIRA_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate reports configuration values that would make onboarding fail.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("owner_id is required (set MIRA_OWNER_ID or run 'mira setup')")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.MCPPort < 0 || c.MCPPort > 65535 {
		return fmt.Errorf("mcp_port out of range: %d", c.MCPPort)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/mira/mira.yml or $XDG_CONFIG_HOME/mira/mira.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mira", "mira.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mira", "mira.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "mira.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
