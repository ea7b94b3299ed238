package config

import (
	"github.com/MonkyMars/gecho"
)

// InitializeLogger builds the process logger, with caller info.
func InitializeLogger() *gecho.Logger {
	return NewLogger(true)
}

// NewLogger builds a logger at the environment's log level. Middleware loggers
// are created without caller info to keep request lines short.
func NewLogger(showCaller bool) *gecho.Logger {
	logLevel := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(logLevel)))
}
