package z80

import "github.com/rs/zerolog"

// Logger is the structured-logging seam the core writes diagnostic and
// trace output through, so a host can route it into its own logging setup
// or silence it entirely. Mirrors the teacher's own small logging
// interfaces rather than taking a hard dependency on one concrete logger.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// NopLogger discards everything; it's the default when Config.Logger is
// left nil.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}

// ZerologLogger adapts github.com/rs/zerolog to the Logger interface, for
// hosts that want the core's diagnostics folded into a structured log
// stream instead of discarded or routed through fmt.
type ZerologLogger struct {
	Log zerolog.Logger
}

func NewZerologLogger(log zerolog.Logger) ZerologLogger {
	return ZerologLogger{Log: log}
}

func (z ZerologLogger) Debugf(format string, args ...interface{}) {
	z.Log.Debug().Msgf(format, args...)
}

func (z ZerologLogger) Infof(format string, args ...interface{}) {
	z.Log.Info().Msgf(format, args...)
}

func (z ZerologLogger) Warnf(format string, args ...interface{}) {
	z.Log.Warn().Msgf(format, args...)
}
