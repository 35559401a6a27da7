package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jo-hoe/profileform/internal/backend/uploads"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort             = 8080
	DefaultDatabaseType     = "sqlite"
	DefaultConnectionString = "file:submissions.db"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Uploads struct {
	// Directory is where pictures are written; it is created on first upload
	Directory string `yaml:"directory"`
	// PublicPath is the URL prefix pictures are served under
	PublicPath string `yaml:"publicPath"`
	// MaxFileSize is the largest accepted picture in bytes
	MaxFileSize int64 `yaml:"maxFileSize"`
}

type ServiceConfig struct {
	Port     int      `yaml:"port"`
	LogLevel string   `yaml:"logLevel"`
	Database Database `yaml:"database"`
	Uploads  Uploads  `yaml:"uploads"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database.Type == "" {
		c.Database.Type = DefaultDatabaseType
	}
	if c.Database.ConnectionString == "" && c.Database.Type == DefaultDatabaseType {
		c.Database.ConnectionString = DefaultConnectionString
	}
	if c.Uploads.Directory == "" {
		c.Uploads.Directory = uploads.DefaultDirectory
	}
	if c.Uploads.PublicPath == "" {
		c.Uploads.PublicPath = uploads.DefaultPublicPath
	}
	if c.Uploads.MaxFileSize == 0 {
		c.Uploads.MaxFileSize = uploads.DefaultMaxFileSize
	}
}

func (c *ServiceConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Database.ConnectionString == "" {
		return fmt.Errorf("database %s requires a connectionString", c.Database.Type)
	}
	if c.Uploads.MaxFileSize < 0 {
		return fmt.Errorf("uploads.maxFileSize must be positive, got %d", c.Uploads.MaxFileSize)
	}
	if !strings.HasPrefix(c.Uploads.PublicPath, "/") {
		return fmt.Errorf("uploads.publicPath must start with '/', got %q", c.Uploads.PublicPath)
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", level)
	}
	return l, nil
}
