// Package types defines all data structures used across the application
package types

import (
	"encoding/json"
	"errors"
	"strings"
)

// ServerRecord is one entry of the speedtest.net server list.
// Only the sponsor and host are consumed; every other field is ignored.
type ServerRecord struct {
	Sponsor string `json:"sponsor"` // Organization operating the server
	Host    string `json:"host"`    // Server address, usually hostname:port
}

var (
	// ErrNotObject is returned when a list element is not a JSON object
	ErrNotObject = errors.New("element is not a JSON object")

	// ErrMissingField matches any MissingFieldsError
	ErrMissingField = errors.New("missing required field")
)

// MissingFieldsError lists the required fields absent from an element
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing field " + strings.Join(e.Fields, ", ")
}

// Is reports whether target is ErrMissingField
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingField
}

// UnmarshalJSON decodes an element and rejects it when sponsor or host is
// absent or null. Empty strings are accepted. Invalid UTF-8 in a value is
// replaced with U+FFFD by encoding/json.
func (r *ServerRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sponsor *string `json:"sponsor"`
		Host    *string `json:"host"`
	}
	if len(data) == 0 || data[0] != '{' {
		return ErrNotObject
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var missing []string
	if raw.Sponsor == nil {
		missing = append(missing, "sponsor")
	}
	if raw.Host == nil {
		missing = append(missing, "host")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	r.Sponsor = *raw.Sponsor
	r.Host = *raw.Host
	return nil
}

// Line formats the record the way it is printed
func (r ServerRecord) Line() string {
	return r.Sponsor + ": " + r.Host
}
