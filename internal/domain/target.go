package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Target is one entry of the remote feed: an observed request against some
// host. Records are immutable once fetched; a cycle only reads them.
type Target struct {
	Host      string     `json:"host"`
	Path      string     `json:"path"`
	Method    string     `json:"method"`
	Type      string     `json:"type"`
	Port      FlexString `json:"port"`
	RequestID string     `json:"request_id"`
}

// MethodOrType returns the request method, falling back to the record type
// when the feed omits the method.
func (t Target) MethodOrType() string {
	if t.Method != "" {
		return t.Method
	}
	return t.Type
}

// RequestKey is the deduplication identifier. The explicit request_id wins;
// otherwise the key is derived from host, path, type and method, so two
// identical records without an id still dedupe against each other.
func (t Target) RequestKey() string {
	if t.RequestID != "" {
		return t.RequestID
	}
	return t.Host + ":" + t.Path + ":" + t.Type + ":" + t.Method
}

// FlexString holds a JSON value that some feeds emit as a string and others
// as a number (ports, typically).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string { return string(f) }

// Int returns the numeric value, or 0 when empty or non-numeric.
func (f FlexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}
