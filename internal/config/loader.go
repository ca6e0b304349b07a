package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "SYNTHLAW"

// apiKeyFallbacks are consulted, in order, when legal_gpt.api_key is unset.
var apiKeyFallbacks = []string{"GOOGLE_API_KEY", "OPENAI_API_KEY"}

// legacyPortEnv sets the listen port when neither the file nor
// SYNTHLAW_SERVER_PORT does.
const legacyPortEnv = "GENKIT_PORT"

// newViper builds a Viper instance with the SYNTHLAW_ prefix, automatic env
// binding and a "." → "_" key replacer, so "redis.addr" resolves to
// SYNTHLAW_REDIS_ADDR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerDefaults(v)
	return v
}

// LoadDotEnv loads the given .env files, or ".env" when none are named.
// Missing files are ignored and existing variables are never overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config: failed to load env file: %w", err)
	}
	return nil
}

// Load reads the YAML file at configPath, merges SYNTHLAW_* overrides,
// applies defaults and validates the result. An empty path behaves like
// LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from SYNTHLAW_* variables and defaults only.
//
//	SYNTHLAW_<SECTION>_<FIELD>   e.g.  SYNTHLAW_SERVER_PORT, SYNTHLAW_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if cfg.LegalGPT.APIKey == "" {
		for _, name := range apiKeyFallbacks {
			if key := os.Getenv(name); key != "" {
				cfg.LegalGPT.APIKey = key
				break
			}
		}
	}

	if port := os.Getenv(legacyPortEnv); port != "" && !v.InConfig("server.port") && os.Getenv(envPrefix+"_SERVER_PORT") == "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("config: %s=%q is not a port number", legacyPortEnv, port)
		}
		cfg.Server.Port = n
	}

	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch calls onChange with the re-parsed Config each time configPath is
// written. Changes that fail to parse or validate are reported to onError
// (when non-nil) and otherwise dropped. Watch does not block.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
