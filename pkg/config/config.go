// Package config provides configuration management for the keynode server.
//
// The package supports configuration through multiple sources with the
// following precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables
//  3. Default values (lowest priority)
//
// Environment variables are prefixed with "KEYNODE_" and use uppercase
// names. For example, the server port can be set with KEYNODE_PORT=8080.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Default server configuration constants.
const (
	DefaultServerPort      = 8080
	DefaultMaxConnections  = 1000
	DefaultReadTimeoutSecs = 30
	DefaultWriteTimeout    = 10
	DefaultDirectoryShards = 16
	DefaultVirtualNodes    = 150
)

// ServerConfig holds all configuration options for a keynode server
// instance.
//
// Configuration sources (in order of precedence):
//  1. Command-line flags: -port, -host, -max-conns, etc.
//  2. Environment variables: KEYNODE_PORT, KEYNODE_HOST, etc.
//  3. Default values
type ServerConfig struct {
	Host            string // Host address to bind to (default: "0.0.0.0")
	LogLevel        string // Log level: debug, info, warn, error (default: "info"); validated only, log output is not filtered by it
	Port            int    // TCP port to listen on (default: 8080)
	MaxConns        int    // Maximum concurrent connections (default: 1000); validated only, the server does not limit connections
	ReadTimeout     int    // Read timeout in seconds (default: 30); validated only, sessions use a fixed 30-second read deadline
	WriteTimeout    int    // Write timeout in seconds (default: 10); validated only, sessions use a fixed 10-second write deadline
	DirectoryShards int    // Number of key-directory shards (default: 16)
	VirtualNodes    int    // Virtual nodes per shard on the routing ring (default: 150)
}

// LoadServerConfig creates a ServerConfig by loading values from
// command-line flags and environment variables, with sensible defaults.
//
// Command-line flags:
//
//	-port: Server port (default: 8080)
//	-host: Server host (default: "0.0.0.0")
//	-max-conns: Maximum connections (default: 1000)
//	-read-timeout: Read timeout in seconds (default: 30)
//	-write-timeout: Write timeout in seconds (default: 10)
//	-log-level: Log level (default: "info")
//	-directory-shards: Key-directory shard count (default: 16)
//	-virtual-nodes: Virtual nodes per shard (default: 150)
//
// Environment variables:
//
//	KEYNODE_PORT: Server port
//	KEYNODE_HOST: Server host
//	KEYNODE_MAX_CONNS: Maximum connections
//	KEYNODE_DIRECTORY_SHARDS: Key-directory shard count
//	KEYNODE_VIRTUAL_NODES: Virtual nodes per shard
func LoadServerConfig() *ServerConfig {
	config := &ServerConfig{
		Port:            DefaultServerPort,
		Host:            "0.0.0.0",
		MaxConns:        DefaultMaxConnections,
		ReadTimeout:     DefaultReadTimeoutSecs,
		WriteTimeout:    DefaultWriteTimeout,
		LogLevel:        "info",
		DirectoryShards: DefaultDirectoryShards,
		VirtualNodes:    DefaultVirtualNodes,
	}

	flag.IntVar(&config.Port, "port", config.Port, "Server port")
	flag.StringVar(&config.Host, "host", config.Host, "Server host")
	flag.IntVar(&config.MaxConns, "max-conns", config.MaxConns, "Maximum concurrent connections")
	flag.IntVar(&config.ReadTimeout, "read-timeout", config.ReadTimeout, "Read timeout in seconds")
	flag.IntVar(&config.WriteTimeout, "write-timeout", config.WriteTimeout, "Write timeout in seconds")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level (debug, info, warn, error)")
	flag.IntVar(&config.DirectoryShards, "directory-shards", config.DirectoryShards, "Number of key-directory shards")
	flag.IntVar(&config.VirtualNodes, "virtual-nodes", config.VirtualNodes, "Virtual nodes per shard on the routing ring")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if port := os.Getenv("KEYNODE_PORT"); port != "" && !explicit["port"] {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}
	if host := os.Getenv("KEYNODE_HOST"); host != "" && !explicit["host"] {
		config.Host = host
	}
	if maxConns := os.Getenv("KEYNODE_MAX_CONNS"); maxConns != "" && !explicit["max-conns"] {
		if mc, err := strconv.Atoi(maxConns); err == nil {
			config.MaxConns = mc
		}
	}
	if shards := os.Getenv("KEYNODE_DIRECTORY_SHARDS"); shards != "" && !explicit["directory-shards"] {
		if ds, err := strconv.Atoi(shards); err == nil {
			config.DirectoryShards = ds
		}
	}
	if vn := os.Getenv("KEYNODE_VIRTUAL_NODES"); vn != "" && !explicit["virtual-nodes"] {
		if v, err := strconv.Atoi(vn); err == nil {
			config.VirtualNodes = v
		}
	}

	return config
}

// Address returns the full address string for the server to bind to.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the ServerConfig contains valid values.
//
// Validation rules:
//   - Port must be between 1 and 65535
//   - MaxConns must be positive
//   - ReadTimeout and WriteTimeout must be positive
//   - LogLevel must be one of: debug, info, warn, error
//   - DirectoryShards and VirtualNodes must be positive
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("max connections must be positive: %d", c.MaxConns)
	}
	if c.ReadTimeout < 1 {
		return fmt.Errorf("read timeout must be positive: %d", c.ReadTimeout)
	}
	if c.WriteTimeout < 1 {
		return fmt.Errorf("write timeout must be positive: %d", c.WriteTimeout)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.DirectoryShards < 1 {
		return fmt.Errorf("directory shards must be positive: %d", c.DirectoryShards)
	}
	if c.VirtualNodes < 1 {
		return fmt.Errorf("virtual nodes must be positive: %d", c.VirtualNodes)
	}

	return nil
}
