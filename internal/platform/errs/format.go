package errs

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const msgFallback = "An error occurred"

// Format renders c as a single display string. Validation errors become one
// "Field: message" line per field; Generic errors render their message.
// The output is for display only.
func Format(c *Classified) string {
	if c == nil {
		return msgFallback
	}

	if c.Kind == Validation && len(c.Fields) > 0 {
		lines := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			lines = append(lines, capitalize(f.Field)+": "+f.Message)
		}
		return strings.Join(lines, "\n")
	}

	if c.Message == "" {
		return msgFallback
	}
	return c.Message
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
