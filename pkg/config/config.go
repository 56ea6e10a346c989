// Package config provides configuration management for the MovieCat server
// and client binaries.
//
// Values are resolved from three sources with the following precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables, prefixed with "MOVIECAT_"
//  3. Default values (lowest priority)
//
// A .env file in the working directory is loaded into the environment first,
// if present, so deployments can keep their settings next to the binary.
//
// Example server usage:
//
//	cfg := config.LoadServerConfig()
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//	srv := server.New(cfg, cat)
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default configuration constants.
const (
	DefaultServerPort      = 8000
	DefaultDataFile        = "movies.csv"
	DefaultMaxMovies       = 1000
	DefaultDialTimeoutSecs = 5
)

// ServerConfig holds all options for a MovieCat server instance.
type ServerConfig struct {
	Host        string // Host address to bind to (default: "0.0.0.0")
	LogLevel    string // Log level: debug, info, warn, error (default: "info")
	DataFile    string // Path of the persisted catalog file (default: "movies.csv")
	MetricsAddr string // Address for the /metrics HTTP listener; empty disables metrics
	Port        int    // TCP port to listen on (default: 8000)
	MaxMovies   int    // Maximum number of movies in the catalog (default: 1000)
}

// ClientConfig holds all options for a MovieCat client.
type ClientConfig struct {
	Addr        string // Server address in "host:port" form (default: "localhost:8000")
	DialTimeout int    // Connection timeout in seconds (default: 5)
}

// LoadServerConfig creates a ServerConfig from command-line flags and
// environment variables, with sensible defaults.
//
// Command-line flags:
//
//	-port: Server port (default: 8000)
//	-host: Server host (default: "0.0.0.0")
//	-data-file: Catalog file path (default: "movies.csv")
//	-max-movies: Catalog capacity (default: 1000)
//	-metrics-addr: Metrics listen address, empty to disable
//	-log-level: Log level (default: "info")
//
// Environment variables:
//
//	MOVIECAT_PORT, MOVIECAT_HOST, MOVIECAT_DATA_FILE, MOVIECAT_MAX_MOVIES,
//	MOVIECAT_METRICS_ADDR, MOVIECAT_LOG_LEVEL
func LoadServerConfig() *ServerConfig {
	_ = godotenv.Load()

	config := &ServerConfig{
		Port:      DefaultServerPort,
		Host:      "0.0.0.0",
		DataFile:  DefaultDataFile,
		MaxMovies: DefaultMaxMovies,
		LogLevel:  "info",
	}

	flag.IntVar(&config.Port, "port", config.Port, "Server port")
	flag.StringVar(&config.Host, "host", config.Host, "Server host")
	flag.StringVar(&config.DataFile, "data-file", config.DataFile, "Catalog file path")
	flag.IntVar(&config.MaxMovies, "max-movies", config.MaxMovies, "Maximum number of movies")
	flag.StringVar(&config.MetricsAddr, "metrics-addr", config.MetricsAddr, "Metrics listen address (empty disables)")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	config.applyEnv()
	return config
}

// applyEnv overrides fields from MOVIECAT_* environment variables.
func (c *ServerConfig) applyEnv() {
	if port := os.Getenv("MOVIECAT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}

	if host := os.Getenv("MOVIECAT_HOST"); host != "" {
		c.Host = host
	}

	if dataFile := os.Getenv("MOVIECAT_DATA_FILE"); dataFile != "" {
		c.DataFile = dataFile
	}

	if maxMovies := os.Getenv("MOVIECAT_MAX_MOVIES"); maxMovies != "" {
		if m, err := strconv.Atoi(maxMovies); err == nil {
			c.MaxMovies = m
		}
	}

	if metricsAddr := os.Getenv("MOVIECAT_METRICS_ADDR"); metricsAddr != "" {
		c.MetricsAddr = metricsAddr
	}

	if logLevel := os.Getenv("MOVIECAT_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
}

// LoadClientConfig creates a ClientConfig from environment variables, with
// sensible defaults.
//
// Environment variables:
//
//	MOVIECAT_ADDR: Server address ("host:port")
//	MOVIECAT_DIAL_TIMEOUT: Connection timeout in seconds
func LoadClientConfig() *ClientConfig {
	_ = godotenv.Load()

	config := &ClientConfig{
		Addr:        "localhost:8000",
		DialTimeout: DefaultDialTimeoutSecs,
	}

	config.applyEnv()
	return config
}

func (c *ClientConfig) applyEnv() {
	if addr := os.Getenv("MOVIECAT_ADDR"); addr != "" {
		c.Addr = addr
	}

	if dialTimeout := os.Getenv("MOVIECAT_DIAL_TIMEOUT"); dialTimeout != "" {
		if d, err := strconv.Atoi(dialTimeout); err == nil {
			c.DialTimeout = d
		}
	}
}

// Address returns the listen address in "host:port" form, suitable for
// net.Listen.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the ServerConfig for usable values.
//
// Validation rules:
//   - Port must be between 1 and 65535
//   - DataFile must be non-empty
//   - MaxMovies must be positive
//   - LogLevel must be one of: debug, info, warn, error
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.DataFile == "" {
		return fmt.Errorf("data file path must not be empty")
	}

	if c.MaxMovies < 1 {
		return fmt.Errorf("max movies must be positive: %d", c.MaxMovies)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

// Validate checks the ClientConfig for usable values.
func (c *ClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if !strings.Contains(c.Addr, ":") {
		return fmt.Errorf("invalid server address format: %s", c.Addr)
	}

	if c.DialTimeout < 1 {
		return fmt.Errorf("dial timeout must be positive: %d", c.DialTimeout)
	}

	return nil
}
