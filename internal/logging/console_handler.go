package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// consoleHandler writes short human-readable lines for a one-shot CLI run:
//
//	warn  enrich: creator name resolution failed owners=3 [resolve_names_failed]
//	      hint: check steam.web_api_key and network access
//	      impact: unresolved creator names reported as [unknown]
//
// There is no timestamp; the component becomes the prefix; event_type is a
// trailing tag; error_hint and impact get their own lines. The command and
// correlation id are left to the JSON log file.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	prefix string
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: level}
}

// consoleHidden lists keys the console never prints inline.
var consoleHidden = map[string]bool{
	FieldCommand:       true,
	FieldCorrelationID: true,
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var component, event, hint, impact string
	var fields []string

	visit := func(key string, v slog.Value) {
		switch key {
		case FieldComponent:
			if component == "" {
				component = v.String()
			}
		case FieldEventType:
			event = v.String()
		case FieldErrorHint:
			hint = v.String()
		case FieldImpact:
			impact = v.String()
		default:
			if !consoleHidden[key] {
				fields = append(fields, key+"="+consoleValue(v))
			}
		}
	}
	for _, a := range h.attrs {
		walkAttr("", a, visit)
	}
	r.Attrs(func(a slog.Attr) bool {
		walkAttr(h.prefix, a, visit)
		return true
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-5s ", strings.ToLower(r.Level.String()))
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	buf.WriteString(r.Message)
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f)
	}
	if event != "" {
		buf.WriteString(" [" + event + "]")
	}
	if r.Level <= slog.LevelDebug {
		if src := r.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')
	if hint != "" {
		buf.WriteString("      hint: " + hint + "\n")
	}
	if impact != "" {
		buf.WriteString("      impact: " + impact + "\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// walkAttr flattens groups into dotted keys.
func walkAttr(prefix string, a slog.Attr, visit func(string, slog.Value)) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, g := range v.Group() {
			walkAttr(inner, g, visit)
		}
		return
	}
	if a.Key == "" {
		return
	}
	visit(prefix+a.Key, v)
}

func consoleValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
