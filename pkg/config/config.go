package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DirectoryEnvVar overrides files.directory when set
const DirectoryEnvVar = "RAWHTTPD_DIRECTORY"

// Config represents the server configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Files   FilesConfig  `yaml:"files"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig contains listener settings
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ReadBufferSize int    `yaml:"read_buffer_size"` // bytes read from each connection, once
}

// FilesConfig contains settings for the /files endpoint
type FilesConfig struct {
	Directory string `yaml:"directory"`
}

// LogConfig contains settings for logging
type LogConfig struct {
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age"`     // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress"`
	// AccessLog is a pointer so an explicit "false" in the file is not
	// mistaken for an omitted value
	AccessLog   *bool  `yaml:"access_log"`
	WireLogPath string `yaml:"wire_log_path"` // raw request/response dump, disabled when empty
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	accessLog := true
	return &Config{
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           4221,
			ReadBufferSize: 1024,
		},
		Files: FilesConfig{
			Directory: "",
		},
		Logging: LogConfig{
			LogToFile:   false,
			LogFilePath: "rawhttpd.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
			AccessLog:   &accessLog,
			WireLogPath: "",
		},
	}
}

// Default returns a configuration with default values
// This is an alias for LoadDefault
func Default() *Config {
	return LoadDefault()
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessLogEnabled reports whether exchanges are printed to the console
func (c *Config) AccessLogEnabled() bool {
	return c.Logging.AccessLog == nil || *c.Logging.AccessLog
}

// Validate checks values that would make the server unusable
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Server.ReadBufferSize < 1 {
		return fmt.Errorf("invalid read buffer size %d: must be positive", c.Server.ReadBufferSize)
	}
	return nil
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge server configuration
	if fileCfg.Server.Host != "" {
		cfg.Server.Host = fileCfg.Server.Host
	}
	if fileCfg.Server.Port > 0 {
		cfg.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Server.ReadBufferSize > 0 {
		cfg.Server.ReadBufferSize = fileCfg.Server.ReadBufferSize
	}

	if fileCfg.Files.Directory != "" {
		cfg.Files.Directory = fileCfg.Files.Directory
	}

	// Merge logging configuration
	if fileCfg.Logging.LogToFile {
		cfg.Logging.LogToFile = fileCfg.Logging.LogToFile
	}
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}
	if fileCfg.Logging.Compress {
		cfg.Logging.Compress = fileCfg.Logging.Compress
	}
	if fileCfg.Logging.AccessLog != nil {
		cfg.Logging.AccessLog = fileCfg.Logging.AccessLog
	}
	if fileCfg.Logging.WireLogPath != "" {
		cfg.Logging.WireLogPath = fileCfg.Logging.WireLogPath
	}

	ApplyEnv(cfg)

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file
// If the file doesn't exist or can't be parsed, it returns default configuration
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = LoadDefault()
		ApplyEnv(cfg)
	}
	return cfg
}

// ApplyEnv lets the environment override the files directory
func ApplyEnv(cfg *Config) {
	if dir := os.Getenv(DirectoryEnvVar); dir != "" {
		cfg.Files.Directory = dir
	}
}
