/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package

Flags are registered on import and parsed by ParseFlags, which every main
calls first thing.
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	Seeder    = "seeder"
)

const (
	PostgresStore = "postgres"
	MemoryStore   = "memory"
)

var (
	ServiceName    *string
	Port           *int
	StoreKind      *string
	FeedConfigPath *string
	EnableTracing  *bool
)

func init() {
	ServiceName = flag.String("service", APIServer, "'api_server' or 'seeder'")
	Port = flag.Int("port", 8080, "port the api server listens on")
	StoreKind = flag.String("store", PostgresStore, "'postgres' or 'memory'")
	FeedConfigPath = flag.String("feed_config", "app_config/config/feed.yaml", "path to the feed ranking yaml config, defaults are used when missing")
	EnableTracing = flag.Bool("trace", false, "enable datadog tracing and profiling")
}

// ParseFlags parses the command line once.
func ParseFlags() {
	if !flag.Parsed() {
		flag.Parse()
	}
}
