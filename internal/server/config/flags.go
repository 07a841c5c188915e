package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tippace/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-l string   log level (debug, info, warn, error)
//	-w int      goal persist debounce, milliseconds
//	-k string   default week start (sunday or monday)
//	-z string   time zone (IANA name)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      export link validity, minutes
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-l", "-w", "-k", "-z", "-u", "-p", "-b", "-r", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port of the HTTP API")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	debounce := fs.Int("w", int(config.PersistDebounce.Milliseconds()), "goal persist debounce (in milliseconds)")

	fs.StringVar(&config.DefaultWeekStart, "k", config.DefaultWeekStart, "default week start")
	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "time zone")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	linkValidity := fs.Int("x", int(config.ExportLinkValidity.Minutes()), "export link validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PersistDebounce = time.Duration(*debounce) * time.Millisecond
	config.ExportLinkValidity = time.Duration(*linkValidity) * time.Minute
}
