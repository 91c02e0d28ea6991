package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: results, warnings and errors only
	VerbosityInfo  = 1 // -v: + per-document progress
	VerbosityDebug = 2 // -vv: + per-stage detail, cache hits, timing
	VerbosityTrace = 3 // -vvv: + per-sentence label sequences
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels.
//
// Mapping:
//
//	0 (none)  -> WarnLevel  (errors and warnings only)
//	1 (-v)    -> InfoLevel  (+ informational messages)
//	2+ (-vv)  -> DebugLevel (+ debug messages)
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch verbosity {
	case VerbosityUser:
		return zapcore.WarnLevel
	case VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 3 (-vvv).
// Use this for dumping full label sequences and feature vectors.
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}
