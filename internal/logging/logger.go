package logging

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"Loadline/internal/config"
)

// New builds the process logger. Records are also copied into buf when it is
// non-nil so the shell can show recent activity.
func New(cfg config.Config, w io.Writer, appName string, buf *Buffer) *slog.Logger {
	var h slog.Handler
	if cfg.AppEnv == "dev" {
		h = tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})
	}
	if buf != nil {
		h = &teeHandler{next: h, buf: buf}
	}
	return slog.New(h).With("app", appName)
}

// teeHandler forwards to next and records the message in the buffer, along
// with the attributes and groups added through With and WithGroup.
type teeHandler struct {
	next   slog.Handler
	buf    *Buffer
	attrs  []slog.Attr
	prefix string
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.next.Enabled(ctx, level)
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := make(map[string]string, len(t.attrs)+r.NumAttrs())
	for _, a := range t.attrs {
		addField(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addField(fields, t.prefix, a)
		return true
	})
	t.buf.Add(Entry{
		Timestamp: r.Time,
		Level:     r.Level.String(),
		Message:   r.Message,
		Fields:    fields,
	})
	return t.next.Handle(ctx, r)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	own := make([]slog.Attr, 0, len(t.attrs)+len(attrs))
	own = append(own, t.attrs...)
	for _, a := range attrs {
		if t.prefix != "" {
			a.Key = t.prefix + a.Key
		}
		own = append(own, a)
	}
	return &teeHandler{next: t.next.WithAttrs(attrs), buf: t.buf, attrs: own, prefix: t.prefix}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	return &teeHandler{next: t.next.WithGroup(name), buf: t.buf, attrs: t.attrs, prefix: t.prefix + name + "."}
}

// addField flattens groups into dotted keys.
func addField(fields map[string]string, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, g := range a.Value.Group() {
			addField(fields, p, g)
		}
		return
	}
	if a.Key == "" {
		return
	}
	fields[prefix+a.Key] = a.Value.String()
}
