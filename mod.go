// Package nearapi is the root of a client library to build, sign and submit
// transactions to a NEAR network, and to compose read-only queries against
// the node RPC interface.
package nearapi

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Version is the version of the module.
const Version = "0.1.0"

// EnvLogLevel is the name of the environment variable to change the logging
// level.
const EnvLogLevel = "NEARAPI_LOG_LEVEL"

const defaultLevel = zerolog.InfoLevel

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. By default, it only prints
// info level logs, but it can be changed through the environment variable.
var Logger = zerolog.New(logout).Level(levelFromEnv()).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes the Prometheus collectors created by the packages of
// the module. A caller is free to register them to its own registry.
var PromCollectors []prometheus.Collector

func levelFromEnv() zerolog.Level {
	lvl := os.Getenv(EnvLogLevel)

	switch lvl {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	case "trace":
		return zerolog.TraceLevel
	case "":
		return defaultLevel
	default:
		return zerolog.TraceLevel
	}
}
