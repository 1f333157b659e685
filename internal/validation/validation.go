// Package validation collects field-level input errors so a request can
// report every problem at once instead of failing on the first.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a set of field errors.  Fields holds request-level problems;
// Passengers holds one entry per passenger form, in submission order, so
// clients can attach messages to the right form.  A nil map in Passengers
// means that form was valid.
type Error struct {
	Fields     map[string]string   `json:"fields,omitempty"`
	Passengers []map[string]string `json:"passengers,omitempty"`
}

// Add records a problem with a request field.  The first message for a
// field wins.
func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// AddPassenger records a problem with field of the i-th passenger form.
func (e *Error) AddPassenger(i int, field, msg string) {
	for len(e.Passengers) <= i {
		e.Passengers = append(e.Passengers, nil)
	}
	if e.Passengers[i] == nil {
		e.Passengers[i] = map[string]string{}
	}
	if _, ok := e.Passengers[i][field]; !ok {
		e.Passengers[i][field] = msg
	}
}

// Empty reports whether no problem has been recorded.
func (e *Error) Empty() bool {
	if len(e.Fields) > 0 {
		return false
	}
	for _, p := range e.Passengers {
		if len(p) > 0 {
			return false
		}
	}
	return true
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *Error) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	var parts []string
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	for i, p := range e.Passengers {
		pk := make([]string, 0, len(p))
		for k := range p {
			pk = append(pk, k)
		}
		sort.Strings(pk)
		for _, k := range pk {
			parts = append(parts, fmt.Sprintf("passengers[%d].%s: %s", i, k, p[k]))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field builds an Error with a single field problem.
func Field(field, msg string) error {
	e := &Error{}
	e.Add(field, msg)
	return e
}

// As reports whether err carries a validation Error and returns it.
func As(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
