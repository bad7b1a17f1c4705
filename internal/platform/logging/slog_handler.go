package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap/zapcore"
)

// Slog wraps the logger in a log/slog facade so packages written
// against *slog.Logger share the zap core, trace enrichment and the
// log mirror.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&slogHandler{logger: l})
}

type slogHandler struct {
	logger *Logger
	attrs  []slog.Attr
	group  string
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	logger := h.logger
	if logger == nil || logger.zap == nil {
		return false
	}
	return logger.zap.Core().Enabled(toZapLevel(level))
}

func (h *slogHandler) Handle(ctx context.Context, record slog.Record) error {
	args := make([]any, 0, (len(h.attrs)+record.NumAttrs())*2)
	for _, attr := range h.attrs {
		args = appendAttr(args, h.group, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		args = appendAttr(args, h.group, attr)
		return true
	})

	h.logger.logContext(ctx, toZapLevel(record.Level), record.Message, args...)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &slogHandler{logger: h.logger, attrs: merged, group: h.group}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &slogHandler{logger: h.logger, attrs: h.attrs, group: group}
}

func appendAttr(args []any, group string, attr slog.Attr) []any {
	key := attr.Key
	if key == "" {
		return args
	}
	if group != "" {
		key = group + "." + key
	}
	return append(args, key, attr.Value.Resolve().Any())
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
