package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return a.Host + ":" + strconv.Itoa(a.Port)
}

func (a *NetAddress) Set(value string) error {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(value))
	if err != nil {
		return errors.New("address must be in host:port format")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return errors.New("port must be a number")
	}
	a.Host = host
	a.Port = port
	return nil
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-b backend base URL
//	-d local database path
//	-c/-config json file path with configs
//	-sync-interval periodic sync interval (e.g., "5m")
//	-batch-size max queue items drained per cycle
//	-max-attempts retry ceiling for transient failures
//	-max-in-flight concurrent backend calls per cycle
//	-freshness-window local-edit freshness window (e.g., "5m")
//	-request-timeout per-call backend timeout (e.g., "15s")
//	-session-token platform session token
func ParseFlags() *StructuredConfig {
	var backendAddress string
	var databaseDSN string
	var jsonConfigPath string
	var syncInterval time.Duration
	var batchSize int
	var maxAttempts int
	var maxInFlight int
	var freshnessWindow time.Duration
	var requestTimeout time.Duration
	var sessionToken string

	flag.StringVar(&backendAddress, "b", "", "Backend base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 5m)")
	flag.IntVar(&batchSize, "batch-size", 0, "Max queue items drained per cycle")
	flag.IntVar(&maxAttempts, "max-attempts", 0, "Retry ceiling for transient failures")
	flag.IntVar(&maxInFlight, "max-in-flight", 0, "Concurrent backend calls per cycle")
	flag.DurationVar(&freshnessWindow, "freshness-window", 0, "Local-edit freshness window (e.g., 5m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Per-call backend timeout (e.g., 15s)")
	flag.StringVar(&sessionToken, "session-token", "", "Platform session token")

	flag.Parse()

	return &StructuredConfig{
		Backend: Backend{
			Address:        backendAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			Interval:        syncInterval,
			BatchSize:       batchSize,
			MaxAttempts:     maxAttempts,
			MaxInFlight:     maxInFlight,
			FreshnessWindow: freshnessWindow,
		},
		Auth: Auth{
			SessionToken: sessionToken,
		},
		JSONFilePath: jsonConfigPath,
	}
}
