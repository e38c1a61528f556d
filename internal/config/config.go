// Package config loads axiom tool configuration from defaults, an optional
// YAML file and AXIOM_* environment variables, in increasing precedence.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the axiom CLI configuration.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Output   OutputConfig  `mapstructure:"output"`
	Preview  PreviewConfig `mapstructure:"preview"`
	Wasm     WasmConfig    `mapstructure:"wasm"`
	Classes  ClassConfig   `mapstructure:"classes"`
}

// OutputConfig selects the fixed scripts emitted alongside a program.
type OutputConfig struct {
	DOMBindings bool `mapstructure:"dom_bindings"`
	WasmBridge  bool `mapstructure:"wasm_bridge"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

// WasmConfig configures export verification.
type WasmConfig struct {
	// Memory limit per module (in pages, 64KB each).
	MemoryPages uint32 `mapstructure:"memory_pages"`
	// Compilation cache directory. Empty keeps the cache in memory.
	CacheDir string `mapstructure:"cache_dir"`
}

// ClassConfig configures the class-name registries.
type ClassConfig struct {
	// Snapshot is a msgpack file restored before and written after `axiom class`.
	Snapshot string `mapstructure:"snapshot"`
}

// Load reads configuration. An empty path skips the config file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")

	v.SetDefault("output.dom_bindings", true)
	v.SetDefault("output.wasm_bridge", false)

	v.SetDefault("preview.addr", "127.0.0.1:8080")
	v.SetDefault("preview.static_dir", "")

	v.SetDefault("wasm.memory_pages", 256) // 16MB
	v.SetDefault("wasm.cache_dir", "")

	v.SetDefault("classes.snapshot", "")

	v.SetEnvPrefix("AXIOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
