// Package log defines the narrow logging collaborator passed through the
// pipeline's stage functions. Callers that want real output construct a
// zap-backed Logger with New/NewDevelopment; callers that don't care pass
// NewNoop(). Nothing below this package imports zap directly.
package log

import "go.uber.org/zap"

// Logger handles printf-style logging at four levels. Every Pipeline stage
// receives one of these (possibly a no-op) as its log reference.
type Logger interface {
	Debugf(tmpl string, args ...interface{})
	Infof(tmpl string, args ...interface{})
	Warnf(tmpl string, args ...interface{})
	Errorf(tmpl string, args ...interface{})
}

// New wraps an existing *zap.Logger as a Logger.
func New(z *zap.Logger) Logger {
	return &zapLogger{s: z.Sugar()}
}

// NewProduction builds a Logger backed by zap's production configuration
// (JSON output, info level and above).
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

// NewDevelopment builds a Logger backed by zap's development configuration
// (console output, debug level and above, stack traces on warn+).
func NewDevelopment() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

// NewNoop returns a Logger that discards everything, for callers that have
// no use for pipeline diagnostics.
func NewNoop() Logger {
	return &noopLogger{}
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Debugf(tmpl string, args ...interface{}) { l.s.Debugf(tmpl, args...) }
func (l *zapLogger) Infof(tmpl string, args ...interface{})  { l.s.Infof(tmpl, args...) }
func (l *zapLogger) Warnf(tmpl string, args ...interface{})  { l.s.Warnf(tmpl, args...) }
func (l *zapLogger) Errorf(tmpl string, args ...interface{}) { l.s.Errorf(tmpl, args...) }

type noopLogger struct{}

func (*noopLogger) Debugf(string, ...interface{}) {}
func (*noopLogger) Infof(string, ...interface{})  {}
func (*noopLogger) Warnf(string, ...interface{})  {}
func (*noopLogger) Errorf(string, ...interface{}) {}
