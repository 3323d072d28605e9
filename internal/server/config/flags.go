package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/hashzone/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-p int      pending-upload lock TTL, minutes
//	-u int      download URL cache TTL, minutes
//	-v int      signed download URL validity, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-p", "-u", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	pendingUploadTTL := fs.Int("p", int(config.PendingUploadTTL.Minutes()), "pending_upload_ttl (in minutes)")
	downloadURLCacheTTL := fs.Int("u", int(config.DownloadURLCacheTTL.Minutes()), "download_url_cache_ttl (in minutes)")
	downloadURLValidity := fs.Int("v", int(config.DownloadURLValidity.Minutes()), "download_url_validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PendingUploadTTL = time.Duration(*pendingUploadTTL) * time.Minute
	config.DownloadURLCacheTTL = time.Duration(*downloadURLCacheTTL) * time.Minute
	config.DownloadURLValidity = time.Duration(*downloadURLValidity) * time.Minute
}
