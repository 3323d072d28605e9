package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/hashzone/internal/flagx"
	"github.com/dmitrijs2005/hashzone/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	PendingUploadTTL    timex.Duration `json:"pending_upload_ttl"`
	DownloadURLCacheTTL timex.Duration `json:"download_url_cache_ttl"`
	DownloadURLValidity timex.Duration `json:"download_url_validity"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags.
// If neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.PendingUploadTTL = time.Duration(c.PendingUploadTTL.Duration)
	config.DownloadURLCacheTTL = time.Duration(c.DownloadURLCacheTTL.Duration)
	config.DownloadURLValidity = time.Duration(c.DownloadURLValidity.Duration)
}
