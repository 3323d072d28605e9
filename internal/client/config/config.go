package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings for the hashzone CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the hashzone server HTTP API.
//   - ZoneName: zone that store and load operations target.
//   - DataDir: root of the local content store and the client index
//     database.
type Config struct {
	ServerEndpointAddr string
	ZoneName           string
	DataDir            string
}

// LoadDefaults populates c with sensible defaults. The data directory
// defaults to ~/.hashzone, falling back to a relative directory when the
// home directory cannot be resolved.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.ZoneName = "default"

	home, err := os.UserHomeDir()
	if err != nil {
		c.DataDir = ".hashzone"
		return
	}
	c.DataDir = filepath.Join(home, ".hashzone")
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// parseEnv overlays Config with values from environment variables.
//
//	HASHZONE_ZONE  zone name for store and load operations
//	HASHZONE_DIR   local data directory
func parseEnv(cfg *Config) {
	if v := os.Getenv("HASHZONE_ZONE"); v != "" {
		cfg.ZoneName = v
	}
	if v := os.Getenv("HASHZONE_DIR"); v != "" {
		cfg.DataDir = v
	}
}
