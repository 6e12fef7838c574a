package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// hlogAdapter routes the hertz client's hlog output through slog so all
// diagnostics share one handler and format.
type hlogAdapter struct {
	log *slog.Logger
	min slog.Level
}

func newHlogAdapter(log *slog.Logger) *hlogAdapter {
	return &hlogAdapter{log: log.With("component", "httpclient")}
}

func (a *hlogAdapter) emit(ctx context.Context, lvl slog.Level, msg string) {
	if lvl < a.min {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a.log.Log(ctx, lvl, msg)
}

func (a *hlogAdapter) Trace(v ...interface{})  { a.emit(nil, slog.LevelDebug, fmt.Sprint(v...)) }
func (a *hlogAdapter) Debug(v ...interface{})  { a.emit(nil, slog.LevelDebug, fmt.Sprint(v...)) }
func (a *hlogAdapter) Info(v ...interface{})   { a.emit(nil, slog.LevelInfo, fmt.Sprint(v...)) }
func (a *hlogAdapter) Notice(v ...interface{}) { a.emit(nil, slog.LevelInfo, fmt.Sprint(v...)) }
func (a *hlogAdapter) Warn(v ...interface{})   { a.emit(nil, slog.LevelWarn, fmt.Sprint(v...)) }
func (a *hlogAdapter) Error(v ...interface{})  { a.emit(nil, slog.LevelError, fmt.Sprint(v...)) }
func (a *hlogAdapter) Fatal(v ...interface{})  { a.emit(nil, slog.LevelError, fmt.Sprint(v...)) }

func (a *hlogAdapter) Tracef(format string, v ...interface{}) {
	a.emit(nil, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) Debugf(format string, v ...interface{}) {
	a.emit(nil, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) Infof(format string, v ...interface{}) {
	a.emit(nil, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) Noticef(format string, v ...interface{}) {
	a.emit(nil, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) Warnf(format string, v ...interface{}) {
	a.emit(nil, slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) Errorf(format string, v ...interface{}) {
	a.emit(nil, slog.LevelError, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) Fatalf(format string, v ...interface{}) {
	a.emit(nil, slog.LevelError, fmt.Sprintf(format, v...))
}

func (a *hlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}
func (a *hlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	a.emit(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}

// SetLevel raises the adapter's floor; the slog handler still applies
// its own level on top.
func (a *hlogAdapter) SetLevel(lvl hlog.Level) {
	switch {
	case lvl <= hlog.LevelDebug:
		a.min = slog.LevelDebug
	case lvl <= hlog.LevelNotice:
		a.min = slog.LevelInfo
	case lvl == hlog.LevelWarn:
		a.min = slog.LevelWarn
	default:
		a.min = slog.LevelError
	}
}

// SetOutput satisfies hlog.FullLogger; the slog handler owns the writer.
func (a *hlogAdapter) SetOutput(io.Writer) {}

var _ hlog.FullLogger = (*hlogAdapter)(nil)
