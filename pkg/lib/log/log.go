// Package log exposes the logger the tellah SDK writes to.
//
// The SDK is silent by default ([Noop]). Pass any [Logger] implementation on
// lib.Config to get the SDK logs, every log line carries a "svc" value naming
// the component (e.g. "app.Estimate", "generate.Pipeline", "storage.SQLite").
//
// Adapting log/slog:
//
//	type slogLogger struct{ l *slog.Logger }
//
//	func (s slogLogger) Infof(format string, args ...any)    { s.l.Info(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) Warningf(format string, args ...any) { s.l.Warn(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) Errorf(format string, args ...any)   { s.l.Error(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) Debugf(format string, args ...any)   { s.l.Debug(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) WithValues(kv map[string]any) log.Logger {
//	    args := make([]any, 0, len(kv)*2)
//	    for k, v := range kv {
//	        args = append(args, k, v)
//	    }
//	    return slogLogger{l: s.l.With(args...)}
//	}
//	// WithCtxValues and SetValuesOnCtx can return the logger and ctx untouched.
package log

import "github.com/slok/tellah/internal/log"

// Logger is the logger interface the SDK components log with.
type Logger = log.Logger

// Kv are structured key-value pairs added to log lines.
type Kv = log.Kv

// Noop discards every log line, it's the SDK default.
const Noop = log.Noop
