package lang

import (
	"log/slog"
	"strconv"
)

// valuesAttr groups a result list for trace output. Long lists are
// truncated to their first few entries.
func valuesAttr(key string, vals []Value) slog.Attr {
	const maxLogged = 8

	attrs := make([]slog.Attr, 0, min(len(vals), maxLogged)+1)

	for i, v := range vals[:min(len(vals), maxLogged)] {
		attrs = append(attrs, slog.String(strconv.Itoa(i), v.GoString()))
	}

	if len(vals) > maxLogged {
		attrs = append(attrs, slog.Int("more", len(vals)-maxLogged))
	}

	return slog.Attr{Key: key, Value: slog.GroupValue(attrs...)}
}

// scopeAttr summarizes a frame for trace output.
func scopeAttr(s *Scope) slog.Attr {
	functions, maps := s.Extras().Len()

	return slog.Group("scope",
		slog.Int("depth", s.Depth()),
		slog.Int("locals", len(s.vars)),
		slog.Int("functions", functions),
		slog.Int("maps", maps),
	)
}
