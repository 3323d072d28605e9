// Package config loads runtime configuration for the hashzone CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables HASHZONE_ZONE and HASHZONE_DIR.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the hashzone server HTTP API
//	-z string   zone name for store and load operations
//	-d string   local data directory
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "zone_name": "default",
//	  "data_dir": "/home/user/.hashzone"
//	}
//
// Primary API
//
//   - type Config                     — holds ServerEndpointAddr, ZoneName and DataDir
//   - func LoadConfig() *Config       — builds Config by applying defaults, env, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
