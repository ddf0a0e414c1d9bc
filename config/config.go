// Package config provides loading and parsing of catalog.yaml configuration
// files. Catalog configurations select the backing store driver and its
// connection settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Driver names accepted in the store section.
const (
	DriverRedis = "redis"
	DriverEtcd  = "etcd"
)

// Config represents a catalog.yaml configuration file.
type Config struct {
	// Identity
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Store selects and configures the backing store.
	Store *StoreConfig `yaml:"store"`
}

// StoreConfig selects the store driver and its connection settings.
type StoreConfig struct {
	// Driver is "redis" or "etcd".
	Driver string `yaml:"driver"`

	// Namespace prefixes every key written by the store.
	// Default: "agentcat"
	Namespace string `yaml:"namespace,omitempty"`

	Redis *RedisConfig `yaml:"redis,omitempty"`
	Etcd  *EtcdConfig  `yaml:"etcd,omitempty"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	// URL is a redis connection URL (e.g., "redis://localhost:6379/0").
	URL string `yaml:"url"`

	// ConnectTimeout is the dial timeout.
	// Format: Go duration string (e.g., "5s")
	// Default: 5s
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`

	// ReadTimeout is the per-command read timeout.
	// Default: 3s
	ReadTimeout string `yaml:"read_timeout,omitempty"`

	// WriteTimeout is the per-command write timeout.
	// Default: 3s
	WriteTimeout string `yaml:"write_timeout,omitempty"`
}

// EtcdConfig holds etcd connection settings.
type EtcdConfig struct {
	// Endpoints lists etcd cluster endpoints (e.g., "localhost:2379").
	Endpoints []string `yaml:"endpoints"`

	// DialTimeout is the connection timeout.
	// Default: 5s
	DialTimeout string `yaml:"dial_timeout,omitempty"`

	// TLS configures client TLS for the etcd connection.
	TLS *TLSConfig `yaml:"tls,omitempty"`
}

// TLSConfig mirrors the store TLS settings in yaml form.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
	CAFile   string `yaml:"ca_file,omitempty"`
}

// GetNamespace returns the configured namespace or the default value.
func (s *StoreConfig) GetNamespace() string {
	if s == nil || s.Namespace == "" {
		return "agentcat"
	}
	return s.Namespace
}

// GetConnectTimeout parses the connect timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetConnectTimeout() time.Duration {
	if r == nil {
		return 5 * time.Second
	}
	return parseDuration(r.ConnectTimeout, 5*time.Second)
}

// GetReadTimeout parses the read timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetReadTimeout() time.Duration {
	if r == nil {
		return 3 * time.Second
	}
	return parseDuration(r.ReadTimeout, 3*time.Second)
}

// GetWriteTimeout parses the write timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetWriteTimeout() time.Duration {
	if r == nil {
		return 3 * time.Second
	}
	return parseDuration(r.WriteTimeout, 3*time.Second)
}

// GetDialTimeout parses the dial timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (e *EtcdConfig) GetDialTimeout() time.Duration {
	if e == nil {
		return 5 * time.Second
	}
	return parseDuration(e.DialTimeout, 5*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Validate checks that the configuration selects a usable store.
func (c *Config) Validate() error {
	if c.Store == nil {
		return fmt.Errorf("missing store section")
	}
	switch c.Store.Driver {
	case DriverRedis:
		if c.Store.Redis == nil || c.Store.Redis.URL == "" {
			return fmt.Errorf("redis driver requires store.redis.url")
		}
	case DriverEtcd:
		if c.Store.Etcd == nil || len(c.Store.Etcd.Endpoints) == 0 {
			return fmt.Errorf("etcd driver requires store.etcd.endpoints")
		}
	case "":
		return fmt.Errorf("missing store.driver")
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Load reads and parses a catalog.yaml file from the given path.
// If the path is a directory, it looks for catalog.yaml or catalog.yml in
// that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var configPath string
	if info.IsDir() {
		yamlPath := filepath.Join(path, "catalog.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "catalog.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				configPath = ymlPath
			} else {
				return nil, fmt.Errorf("no catalog.yaml or catalog.yml found in %s", path)
			}
		}
	} else {
		configPath = path
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return &config, nil
}

// LoadFromDir searches for catalog.yaml starting from the given directory
// and walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		config, err := Load(absDir)
		if err == nil {
			return config, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no catalog.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}
