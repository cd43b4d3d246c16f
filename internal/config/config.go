// Package config holds the cleaner's settings and the fixed platform roots it
// scans.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	AppName           = "cleanpc"
	EnvPrefix         = "CLEANPC"
	DefaultConfigType = "json"
)

// Config is the full set of tunables. Every field has a default, so running
// without a config file is the normal case.
type Config struct {
	WhitelistFile    string        `mapstructure:"whitelist_file" json:"whitelist_file"`
	TempRoots        []string      `mapstructure:"temp_roots" json:"temp_roots"`
	CacheRoots       []string      `mapstructure:"cache_roots" json:"cache_roots"`
	TerminateTimeout time.Duration `mapstructure:"terminate_timeout" json:"terminate_timeout"`
	MaxFiles         int           `mapstructure:"max_files" json:"max_files"`
	MemoryFloorMB    float64       `mapstructure:"memory_floor_mb" json:"memory_floor_mb"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval" json:"refresh_interval"`
	TopProcesses     int           `mapstructure:"top_processes" json:"top_processes"`
}

// Defaults returns the built-in settings for goos.
func Defaults(goos string) map[string]any {
	return map[string]any{
		"whitelist_file":    "config/whitelist.json",
		"temp_roots":        TempRoots(goos),
		"cache_roots":       CacheRoots(goos),
		"terminate_timeout": 3 * time.Second,
		"max_files":         0,
		"memory_floor_mb":   1.0,
		"refresh_interval":  2 * time.Second,
		"top_processes":     20,
	}
}

// Load reads settings from (in increasing priority) defaults, the config
// file, and CLEANPC_* environment variables. A .env file in the working
// directory is loaded into the environment first. When file is empty,
// cleanpc.json is looked up in "." and "./config"; its absence is not an
// error.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	v := viper.New()
	v.SetConfigType(DefaultConfigType)
	for key, value := range Defaults(runtime.GOOS) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Debug().Msg("no config file, using defaults")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("config loaded")
	}

	conf := &Config{}
	if err := v.Unmarshal(conf, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	conf.normalize()
	return conf, nil
}

// decodeHook lets env vars carry durations ("5s") and comma-separated root
// lists.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func (c *Config) normalize() {
	if c.TerminateTimeout <= 0 {
		c.TerminateTimeout = 3 * time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 2 * time.Second
	}
	if c.MaxFiles < 0 {
		c.MaxFiles = 0
	}
	if c.TopProcesses <= 0 {
		c.TopProcesses = 20
	}
	c.TempRoots = DedupeRoots(c.TempRoots)
	c.CacheRoots = DedupeRoots(c.CacheRoots)
}
