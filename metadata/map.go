// Package metadata implements the case-insensitive, multi-valued header map
// carried alongside every request and response, with the ASCII/binary value
// typing and reserved-key sanitization gRPC-over-HTTP/2 requires.
package metadata

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// binarySuffix marks a key as carrying base64-encoded binary data rather
// than plain ASCII text.
const binarySuffix = "-bin"

// reserved lists the headers that are never part of user-visible metadata:
// they're consumed by the transport and status layers and stripped before
// metadata crosses into or out of those layers.
var reserved = map[string]bool{
	"Te":                true,
	"User-Agent":        true,
	"Content-Type":      true,
	"Grpc-Message":      true,
	"Grpc-Message-Type": true,
	"Grpc-Status":       true,
}

// Map is a case-insensitive, multi-valued collection of metadata entries.
// It wraps http.Header directly rather than reimplementing header
// canonicalization and multi-value storage from scratch.
type Map struct {
	h http.Header
}

// New returns an empty Map.
func New() Map {
	return Map{h: make(http.Header)}
}

// FromHeaders builds a Map from an existing http.Header, taking ownership
// of it (the caller should not mutate header afterward without going
// through the Map).
func FromHeaders(header http.Header) Map {
	if header == nil {
		header = make(http.Header)
	}
	return Map{h: header}
}

// IntoHeaders returns the Map's underlying http.Header, including any
// reserved entries it may carry.
func (m Map) IntoHeaders() http.Header {
	if m.h == nil {
		return make(http.Header)
	}
	return m.h
}

// IntoSanitizedHeaders returns a copy of the underlying http.Header with
// every reserved key removed, suitable for writing onto the wire alongside
// grpc-status/grpc-message.
func (m Map) IntoSanitizedHeaders() http.Header {
	out := make(http.Header, len(m.h))
	for k, vs := range m.h {
		if reserved[k] {
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Len returns the total number of values across all keys.
func (m Map) Len() int {
	n := 0
	for _, vs := range m.h {
		n += len(vs)
	}
	return n
}

// KeysLen returns the number of distinct keys.
func (m Map) KeysLen() int { return len(m.h) }

// IsEmpty reports whether the map has no entries.
func (m Map) IsEmpty() bool { return m.KeysLen() == 0 }

// isBinaryKey reports whether key, by -bin suffix convention, carries
// base64-encoded binary values rather than plain ASCII text.
func isBinaryKey(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), binarySuffix)
}

// Get returns the first ASCII value for key, if any. Calling Get on a
// binary (-bin) key returns ok=false; use GetBinary instead.
func (m Map) Get(key string) (string, bool) {
	if isBinaryKey(key) {
		return "", false
	}
	v := m.h.Get(key)
	if v == "" {
		if _, ok := m.h[http.CanonicalHeaderKey(key)]; !ok {
			return "", false
		}
	}
	return v, true
}

// GetAll returns every ASCII value for key, in insertion order.
func (m Map) GetAll(key string) []string {
	if isBinaryKey(key) {
		return nil
	}
	return m.h.Values(key)
}

// GetBinary returns the first binary value for key, decoded from base64.
// key need not carry the -bin suffix; it is added if missing.
func (m Map) GetBinary(key string) ([]byte, bool, error) {
	key = ensureBinaryKey(key)
	v := m.h.Get(key)
	if v == "" {
		return nil, false, nil
	}
	b, err := decodeBinaryValue(v)
	if err != nil {
		return nil, true, fmt.Errorf("metadata: invalid binary value for %q: %w", key, err)
	}
	return b, true, nil
}

// GetAllBinary returns every binary value for key, each decoded from base64.
func (m Map) GetAllBinary(key string) ([][]byte, error) {
	key = ensureBinaryKey(key)
	vs := m.h.Values(key)
	out := make([][]byte, 0, len(vs))
	for _, v := range vs {
		b, err := decodeBinaryValue(v)
		if err != nil {
			return nil, fmt.Errorf("metadata: invalid binary value for %q: %w", key, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// ContainsKey reports whether key has at least one value, ASCII or binary.
func (m Map) ContainsKey(key string) bool {
	_, ok := m.h[http.CanonicalHeaderKey(key)]
	return ok
}

// Insert sets key to a single ASCII value, discarding any existing values.
// It rejects a -bin-suffixed key (spec §3.2: ASCII keys must NOT end in
// -bin), mirroring the original implementation's VE::is_valid_key check on
// the write side rather than only enforcing the split on read (Get/
// GetBinary already refuse the wrong accessor for the wrong key kind).
func (m Map) Insert(key, value string) error {
	if isBinaryKey(key) {
		return fmt.Errorf("metadata: %q is a binary (-bin) key; use InsertBinary", key)
	}
	m.h.Set(key, value)
	return nil
}

// InsertBinary sets key (adding the -bin suffix if needed) to a single
// binary value, base64-encoded on the wire.
func (m Map) InsertBinary(key string, value []byte) {
	m.h.Set(ensureBinaryKey(key), base64.RawStdEncoding.EncodeToString(value))
}

// Append adds an additional ASCII value for key without discarding
// existing values. It rejects a -bin-suffixed key, same as Insert.
func (m Map) Append(key, value string) error {
	if isBinaryKey(key) {
		return fmt.Errorf("metadata: %q is a binary (-bin) key; use AppendBinary", key)
	}
	m.h.Add(key, value)
	return nil
}

// AppendBinary adds an additional binary value for key without discarding
// existing values.
func (m Map) AppendBinary(key string, value []byte) {
	m.h.Add(ensureBinaryKey(key), base64.RawStdEncoding.EncodeToString(value))
}

// Remove deletes every value for key.
func (m Map) Remove(key string) {
	m.h.Del(key)
}

// Keys returns the distinct keys present, in no particular order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.h))
	for k := range m.h {
		keys = append(keys, k)
	}
	return keys
}

// Merge copies every entry of other into m, appending rather than
// overwriting existing values.
func (m Map) Merge(other Map) {
	for k, vs := range other.h {
		for _, v := range vs {
			m.h.Add(k, v)
		}
	}
}

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	return Map{h: m.h.Clone()}
}

func ensureBinaryKey(key string) string {
	if isBinaryKey(key) {
		return key
	}
	return key + binarySuffix
}

func decodeBinaryValue(v string) ([]byte, error) {
	if b, err := base64.RawStdEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(v)
}
