//go:build dev || debug

package logger

import "github.com/rs/zerolog"

// defaultLevel is Debug for dev/debug builds.
var defaultLevel = zerolog.DebugLevel
