package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors/errbase"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/gaze-network/mintgate/pkg/logger/stacktrace"
)

// errorAttrReplacer renders error values as their message so every handler prints them the same way.
func errorAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if attr.Key != slogx.ErrorKey && attr.Key != "err" {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok {
		if err == nil {
			return slog.Attr{}
		}
		return slog.String(ErrorKey, err.Error())
	}
	return attr
}

// middlewareErrorStackTrace adds the verbose error and its stack trace to records carrying an error.
func middlewareErrorStackTrace() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			var extra []slog.Attr
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key != slogx.ErrorKey && attr.Key != "err" {
					return true
				}
				err, ok := attr.Value.Any().(error)
				if !ok || err == nil {
					return true
				}
				extra = append(extra, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
				if x, ok := err.(errbase.StackTraceProvider); ok {
					trace := stacktrace.StackTrace(x.StackTrace())
					extra = append(extra, slog.Any(ErrorStackTraceKey, trace.TraceFramesStrings()))
				}
				return false
			})
			rec.AddAttrs(extra...)
			return next(ctx, rec)
		}
	}
}
