package gdn

import (
	"encoding/json"
	"fmt"
)

// Record is a single result row from the API, decoded as a generic object.
type Record map[string]any

// Str returns the value for key as a string.
// Returns "" and false if the key is absent or not a string.
func (r Record) Str(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Int returns the value for key as an int.
// JSON numbers decode as float64; values with a fractional part report false.
func (r Record) Int(key string) (int, bool) {
	f, ok := r[key].(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Envelope is the decoded top-level API response: a results array plus
// arbitrary metadata fields such as the page count.
type Envelope struct {
	records []Record
	fields  map[string]any
}

// decodeEnvelope parses a response body into an Envelope.
// The body must be a JSON object with a results array of objects; anything
// else wraps ErrDecode.
func decodeEnvelope(body []byte) (*Envelope, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	list, ok := raw["results"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: response has no results array", ErrDecode)
	}

	records := make([]Record, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: results element is not an object", ErrDecode)
		}
		records = append(records, Record(obj))
	}
	return &Envelope{records: records, fields: raw}, nil
}

// Records returns the result rows.
func (e *Envelope) Records() []Record { return e.records }

// Len returns the number of result rows.
func (e *Envelope) Len() int { return len(e.records) }

// Field looks up a top-level field of the response object, such as "pages".
// This is a distinct access path from the results projection: Field sees the
// whole envelope, not the results array. Returns nil and false if absent.
func (e *Envelope) Field(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Pages returns the numeric "pages" metadata field.
// Returns 0 and false if the field is absent or not a number.
func (e *Envelope) Pages() (int, bool) {
	f, ok := e.fields["pages"].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
