package logger

import (
	"go.uber.org/zap/zapcore"
)

// Config selects the encoding and minimum level of the process logger.
// Format is one of auto, console, json or logfmt; auto picks console on a
// terminal and logfmt otherwise.
type Config struct {
	Format string
	Level  zapcore.Level
}
