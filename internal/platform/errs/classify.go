package errs

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
)

const (
	msgUnreachable = "Unable to reach the server. Please check your internet connection."
	msgUnexpected  = "An unexpected error occurred"
)

var defaultMessages = map[int]string{
	http.StatusBadRequest:          "Bad request. Please check your input.",
	http.StatusUnauthorized:        "Authentication failed. Please login again.",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusConflict:            "A conflict occurred. The resource may already exist.",
	http.StatusInternalServerError: "Server error. Please try again later.",
	http.StatusServiceUnavailable:  "Service temporarily unavailable. Please try again later.",
}

// DefaultMessage returns the fixed human-readable text for an HTTP status.
func DefaultMessage(status int) string {
	if msg, ok := defaultMessages[status]; ok {
		return msg
	}
	return "An error occurred. Please try again."
}

// Classify normalizes any failure into exactly one Classified value. It never
// fails and has no side effects.
//
// Rules, first match wins:
//  1. a 400 response whose body is a non-empty JSON object without both
//     "error" and "message" keys is a Validation error, one field per entry;
//  2. a response whose body is a JSON object with a "message" key is a
//     Generic error with that message and the body's status (falling back
//     to the response status);
//  3. any other response is a Generic error with the response status and
//     the default message for it;
//  4. a request that got no response is a statusless connectivity error;
//  5. anything else is a statusless error carrying its own text.
func Classify(err error) *Classified {
	var classified *Classified
	if errors.As(err, &classified) && classified != nil {
		return classified
	}

	var rf *ResponseFailure
	if errors.As(err, &rf) && rf != nil {
		return classifyResponse(rf)
	}

	var nf *NetworkFailure
	if errors.As(err, &nf) && nf != nil {
		return NewGeneric(0, msgUnreachable)
	}

	if err != nil && err.Error() != "" {
		return NewGeneric(0, err.Error())
	}
	return NewGeneric(0, msgUnexpected)
}

func classifyResponse(rf *ResponseFailure) *Classified {
	body, isObject := decodeObject(rf.Body)

	if isObject && rf.Status == http.StatusBadRequest && len(body) > 0 &&
		!(body.has("error") && body.has("message")) {
		fields := make([]FieldMessage, 0, len(body))
		for _, e := range body {
			fields = append(fields, FieldMessage{Field: e.key, Message: stringify(e.raw)})
		}
		return NewValidation(fields...)
	}

	if isObject && body.has("message") {
		status := rf.Status
		if s, ok := body.status(); ok {
			status = s
		}
		return &Classified{
			Kind:    Generic,
			Status:  status,
			Label:   body.text("error"),
			Message: body.text("message"),
		}
	}

	return NewGeneric(rf.Status, DefaultMessage(rf.Status))
}

type bodyEntry struct {
	key string
	raw json.RawMessage
}

// objectBody is a JSON object decoded with its key order preserved.
type objectBody []bodyEntry

// set records key, replacing the value of an earlier duplicate in place.
func (b objectBody) set(key string, raw json.RawMessage) objectBody {
	for i := range b {
		if b[i].key == key {
			b[i].raw = raw
			return b
		}
	}
	return append(b, bodyEntry{key: key, raw: raw})
}

// status returns the body's "status" when it is a whole number in the HTTP
// status range.
func (b objectBody) status() (int, bool) {
	raw, ok := b.get("status")
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < 100 || f > 599 {
		return 0, false
	}
	return int(f), true
}

func (b objectBody) get(key string) (json.RawMessage, bool) {
	for _, e := range b {
		if e.key == key {
			return e.raw, true
		}
	}
	return nil, false
}

func (b objectBody) has(key string) bool {
	_, ok := b.get(key)
	return ok
}

// text returns the value under key as display text; null and missing
// values are empty.
func (b objectBody) text(key string) string {
	raw, ok := b.get(key)
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	return stringify(raw)
}

// decodeObject parses body as a JSON object. It reports false for anything
// that is not a well-formed object.
func decodeObject(body []byte) (objectBody, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	var out objectBody
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		out = out.set(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	// Anything after the closing brace makes the body invalid JSON.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return out, true
}

// stringify renders a JSON value as text: strings verbatim, everything else
// (null included) as compact JSON.
func stringify(raw json.RawMessage) string {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
