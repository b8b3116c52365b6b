package errs

import (
	"log/slog"
	"net/http"
)

// LogValue implements slog.LogValuer.
func (c *Classified) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("<nil>")
	}
	attrs := []slog.Attr{slog.String("kind", c.Kind.String())}
	if c.Kind == Validation {
		fields := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			fields = append(fields, f.Field)
		}
		attrs = append(attrs, slog.Any("fields", fields))
		return slog.GroupValue(attrs...)
	}
	if c.Status != 0 {
		attrs = append(attrs, slog.Int("status", c.Status))
	}
	attrs = append(attrs, slog.String("message", c.Message))
	return slog.GroupValue(attrs...)
}

// LogLevel is the level a failure should be logged at: user-correctable
// failures are warnings, the rest errors.
func LogLevel(c *Classified) slog.Level {
	if c == nil {
		return slog.LevelError
	}
	if c.Kind == Validation || (c.Status >= http.StatusBadRequest && c.Status < http.StatusInternalServerError) {
		return slog.LevelWarn
	}
	return slog.LevelError
}
