package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the CLI configuration, read from an optional file and ADAPTR_* environment variables.
type Config struct {
	// Overrides maps method names to record keys. A list is used because
	// viper lower-cases map keys and method names are case sensitive.
	Overrides []Override `mapstructure:"overrides"`
	// Log holds configuration for the logger.
	Log LogConfig `mapstructure:"log"`
}

// Override is a single method -> key mapping.
type Override struct {
	Method string `mapstructure:"method"`
	Key    string `mapstructure:"key"`
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads path (any format viper understands) when it is not empty.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// ADAPTR_LOG_LEVEL -> log.level
	v.SetEnvPrefix("adaptr")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// OverrideMap flattens the configured overrides; later entries win.
func (c *Config) OverrideMap() map[string]string {
	out := make(map[string]string, len(c.Overrides))
	for _, o := range c.Overrides {
		if o.Method == "" {
			continue
		}
		out[o.Method] = o.Key
	}
	return out
}
