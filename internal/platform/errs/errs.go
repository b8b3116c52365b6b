package errs

// Kind discriminates the two shapes a classified error can take.
type Kind int

const (
	// Generic is a status-coded or statusless failure with a single message.
	Generic Kind = iota
	// Validation carries per-field messages the user can correct in place.
	Validation
)

func (k Kind) String() string {
	if k == Validation {
		return "validation"
	}
	return "generic"
}

// FieldMessage is one field-level validation message.
type FieldMessage struct {
	Field   string
	Message string
}

// Classified is the normalized form of any failure the remote API or the
// transport can produce. Exactly one variant is populated: Fields for
// Validation, Status/Label/Message for Generic.
type Classified struct {
	Kind   Kind
	Fields []FieldMessage

	Status  int // 0 when the failure carried no status
	Label   string
	Message string
}

// NewValidation returns a Validation error holding the given fields in order.
func NewValidation(fields ...FieldMessage) *Classified {
	return &Classified{Kind: Validation, Fields: fields}
}

// NewGeneric returns a Generic error. A zero status means "absent".
func NewGeneric(status int, message string) *Classified {
	return &Classified{Kind: Generic, Status: status, Message: message}
}

func (c *Classified) Error() string {
	return Format(c)
}

// IsValidation reports whether c is a Validation error.
func (c *Classified) IsValidation() bool {
	return c != nil && c.Kind == Validation
}

// HasStatus reports whether c is a Generic error with the given status.
func (c *Classified) HasStatus(status int) bool {
	return c != nil && c.Kind == Generic && c.Status == status
}

// FieldMessage returns the message recorded for field, if any.
func (c *Classified) FieldMessage(field string) string {
	if c == nil {
		return ""
	}
	for _, f := range c.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}
