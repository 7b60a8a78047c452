/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package base64key implements the opaque, URL-safe-base64 keys and
// directories used by the Metadata, Locks, and Restrict services. A Key
// keeps its raw bytes and only ever encodes once, at construction, so a
// caller-supplied encoded string is never re-encoded at the wire boundary.
package base64key

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

var wireEncoding = base64.RawURLEncoding

// Format selects the display/decode representation for a Key's bytes.
type Format int

const (
	// Base64 is the wire form: URL-safe, unpadded.
	Base64 Format = iota
	// Utf8 is a lossy decode using the UTF-8 replacement character for
	// invalid sequences. Not reversible.
	Utf8
	// Hex is a strict hex decode/encode of the raw bytes.
	Hex
	// Simple is the raw, undecorated bytes.
	Simple
)

// Key is an opaque byte string kept base64-encoded at the wire boundary.
type Key struct {
	encoded string
	raw     []byte
	rawSet  bool
}

// FromEncoded wraps a string the caller vouches for as already being
// URL-safe-base64 without padding. It is never re-encoded.
func FromEncoded(s string) Key {
	return Key{encoded: s}
}

// FromUnencoded encodes raw bytes into a Key exactly once.
func FromUnencoded(b []byte) Key {
	raw := append([]byte(nil), b...)
	return Key{encoded: wireEncoding.EncodeToString(raw), raw: raw, rawSet: true}
}

// Encoded returns the wire (base64) form, used for every outgoing request.
func (k Key) Encoded() string { return k.encoded }

// Bytes returns the decoded raw bytes, decoding the wire form on first use.
func (k *Key) Bytes() ([]byte, error) {
	if k.rawSet {
		return k.raw, nil
	}
	raw, err := wireEncoding.DecodeString(k.encoded)
	if err != nil {
		return nil, err
	}
	k.raw = raw
	k.rawSet = true
	return raw, nil
}

// String renders the wire (base64) form, matching wire serialization.
func (k Key) String() string { return k.encoded }

// Equal compares two keys by their wire-encoded form.
func (k Key) Equal(other Key) bool { return k.encoded == other.encoded }

// Display renders the key's bytes in the requested format. Utf8 decoding is
// lossy (invalid sequences become U+FFFD) and is not reversible; Hex
// decoding/encoding is strict.
func (k *Key) Display(format Format) (string, error) {
	raw, err := k.Bytes()
	if err != nil {
		return "", err
	}
	switch format {
	case Base64:
		return k.encoded, nil
	case Simple:
		return string(raw), nil
	case Utf8:
		return strings.ToValidUTF8(string(raw), "�"), nil
	case Hex:
		return hex.EncodeToString(raw), nil
	default:
		return "", errInvalidFormat
	}
}

var errInvalidFormat = &formatError{}

type formatError struct{}

func (*formatError) Error() string { return "invalid display format" }

// MarshalJSON always emits the base64 wire form.
func (k Key) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.encoded + `"`), nil
}

// UnmarshalJSON reads the base64 wire form without re-encoding it.
func (k *Key) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*k = FromEncoded(s)
	return nil
}
