// Package canonjson marshals values to the canonical JSON form used
// throughout the record: object keys sorted lexically, no insignificant
// whitespace. Checksums can then be computed deterministically
// regardless of a struct's field declaration order or which replica
// produced the bytes.
package canonjson

import (
	"bytes"
	"encoding/json"
)

// Marshal encodes v as canonical JSON. It round-trips v through the
// standard encoder once to apply field tags, then decodes into a generic
// any so the second encoding pass sorts every object's keys (the
// map[string]any case of encoding/json already sorts keys; struct field
// order does not).
func Marshal(v any) ([]byte, error) {
	first, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Canonicalize(first)
}

// Canonicalize re-encodes an already-serialized JSON document with its
// object keys sorted, collapsing any whitespace.
func Canonicalize(data []byte) ([]byte, error) {
	var generic any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// MarshalIndent is Marshal with human-readable indentation, for CLI output
// and debugging. It is not used for checksums.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	canonical, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, canonical, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
