// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"uicss/config"
)

type envKey struct{}

// LocalEnv is everything subcommands share: configuration, debug report,
// logger and command line inputs common to resolve and watch.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// extra stylesheets from --css, applied after document ones
	Sheets []string
	// forced markup encoding, nil to use document declaration
	CodePage encoding.Encoding

	start         time.Time
	restoreStdLog func()
}

// EnvFromContext panics when context was not prepared with ContextWithEnv,
// this is a programming error.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("localenv not found in context")
	}
	return env
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard log package into program logger.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log != nil {
		e.restoreStdLog = zap.RedirectStdLog(e.Log)
	}
}

// RestoreStdLog flushes logger and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
