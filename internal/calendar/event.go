package calendar

import (
	"bytes"
	"encoding/json"
)

// Field is an optional text field of an event record. The content API is
// loosely typed: a field may be missing, null, a string, a scalar, or even a
// nested JSON value.
type Field struct {
	Value string
	Valid bool // false when the field was absent or null
}

// Text returns a Field holding s.
func Text(s string) Field {
	return Field{Value: s, Valid: true}
}

// Or returns the field value, or def when the field was absent.
func (f Field) Or(def string) string {
	if !f.Valid {
		return def
	}
	return f.Value
}

// UnmarshalJSON keeps strings as-is, scalars as their literal text and
// arrays/objects as raw JSON. Null leaves the field invalid.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Field{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Text(s)
		return nil
	}
	*f = Text(string(data))
	return nil
}

// Event is one "on this day" record returned by the content API.
type Event struct {
	Title       Field `json:"title"`
	Description Field `json:"description"`
	URLPath     Field `json:"url_path"`
	Media       Field `json:"media"`
}

// eventsResponse is the body of GET /events.
type eventsResponse struct {
	Events []Event `json:"events"`
}
