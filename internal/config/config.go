package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Transport  TransportConfig `yaml:"transport"`
	Metadata   StoreConfig     `yaml:"metadata"`
	Namespaces StoreConfig     `yaml:"namespaces"`
	Log        LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the server is reached: "http" serves REST and
// MCP over HTTP, "stdio" serves MCP on stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// Transport modes.
const (
	ModeHTTP  = "http"
	ModeStdio = "stdio"
)

// StoreConfig locates one store. Driver is "sqlite" or "pgx".
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: ModeHTTP,
		},
		Metadata: StoreConfig{
			Driver: "sqlite",
			DSN:    "data/procboard.db",
		},
		Namespaces: StoreConfig{
			Driver: "sqlite",
			DSN:    "data/procboard_namespaces.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. An empty path falls back to PROCBOARD_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PROCBOARD_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PROCBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PROCBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PROCBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("PROCBOARD_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	overrideStore("METADATA", &cfg.Metadata)
	overrideStore("NAMESPACES", &cfg.Namespaces)
	if level := os.Getenv("PROCBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PROCBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}

	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case ModeHTTP, ModeStdio:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	for name, store := range map[string]StoreConfig{"metadata": c.Metadata, "namespaces": c.Namespaces} {
		switch store.Driver {
		case "sqlite", "pgx":
		default:
			return fmt.Errorf("invalid %s driver %q", name, store.Driver)
		}
		if store.DSN == "" {
			return fmt.Errorf("%s dsn is required", name)
		}
	}
	return nil
}

func overrideStore(section string, store *StoreConfig) {
	if driver := os.Getenv("PROCBOARD_" + section + "_DRIVER"); driver != "" {
		store.Driver = driver
	}
	if dsn := os.Getenv("PROCBOARD_" + section + "_DSN"); dsn != "" {
		store.DSN = dsn
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
