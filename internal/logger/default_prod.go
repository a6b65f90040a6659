//go:build !dev && !debug

package logger

import "github.com/rs/zerolog"

// defaultLevel is Info for production builds.
var defaultLevel = zerolog.InfoLevel
