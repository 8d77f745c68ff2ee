package logger

import "strings"

// PrefixedLogger tags every record with a scope path, e.g. "[irc/#chan] Joined channel".
type PrefixedLogger struct {
	inner Logger
	scope []string
	tag   string
}

var _ Logger = (*PrefixedLogger)(nil)

func NewPrefixedLogger(inner Logger, prefix string) *PrefixedLogger {
	return newScoped(inner, []string{prefix})
}

func newScoped(inner Logger, scope []string) *PrefixedLogger {
	return &PrefixedLogger{
		inner: inner,
		scope: scope,
		tag:   "[" + strings.Join(scope, "/") + "] ",
	}
}

// Named returns a logger for a sub-scope. The parent is not modified.
func (p *PrefixedLogger) Named(name string) *PrefixedLogger {
	scope := make([]string, len(p.scope), len(p.scope)+1)
	copy(scope, p.scope)
	return newScoped(p.inner, append(scope, name))
}

func (p *PrefixedLogger) SetLogLevel(levelStr string) { p.inner.SetLogLevel(levelStr) }
func (p *PrefixedLogger) GetLogLevel() string         { return p.inner.GetLogLevel() }

func (p *PrefixedLogger) Trace(msg string, args ...any) { p.inner.Trace(p.tag+msg, args...) }
func (p *PrefixedLogger) Debug(msg string, args ...any) { p.inner.Debug(p.tag+msg, args...) }
func (p *PrefixedLogger) Info(msg string, args ...any)  { p.inner.Info(p.tag+msg, args...) }
func (p *PrefixedLogger) Warn(msg string, args ...any)  { p.inner.Warn(p.tag+msg, args...) }

func (p *PrefixedLogger) Error(msg string, err error, args ...any) {
	p.inner.Error(p.tag+msg, err, args...)
}

func (p *PrefixedLogger) Fatal(msg string, err error, args ...any) {
	p.inner.Fatal(p.tag+msg, err, args...)
}
