/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package oid implements the typed identifier used for every locally
// persisted object: a three character prefix, a dash, and the base32
// encoding of a UUIDv7.
package oid

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"

	"github.com/seaplane-io/seaplane-go/apierr"
)

const prefixLen = 3

const alphabet = "abcdefghijklmnopqrstuvwxyz234567"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Oid is a prefixed, base32-encoded UUIDv7 identifier. The zero value is
// not a valid Oid; construct one with New or Parse.
type Oid struct {
	prefix string
	uuid   uuid.UUID
}

// New mints a fresh Oid with a new UUIDv7 for the given prefix, e.g. "flt",
// "cfg", "frm".
func New(prefix string) (Oid, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return Oid{}, apierr.Wrap(apierr.KindIO, err)
	}
	return WithUUID(prefix, u)
}

// WithUUID builds an Oid from an existing UUID, validating that it is a
// version 7 UUID. This is used when importing objects already identified
// remotely, or in tests that need deterministic values.
func WithUUID(prefix string, u uuid.UUID) (Oid, error) {
	if u.Version() != 7 {
		return Oid{}, apierr.New(apierr.KindUnsupportedUUIDVersion)
	}
	pfx, err := normalizePrefix(prefix)
	if err != nil {
		return Oid{}, err
	}
	return Oid{prefix: pfx, uuid: u}, nil
}

func normalizePrefix(prefix string) (string, error) {
	if len(prefix) != prefixLen {
		return "", apierr.New(apierr.KindPrefixByteLength)
	}
	lower := strings.ToLower(prefix)
	for _, c := range lower {
		if !strings.ContainsRune(alphabet, c) {
			return "", apierr.New(apierr.KindInvalidPrefixChar)
		}
	}
	return lower, nil
}

// Parse decodes the "xxx-<26 chars>" textual form of an Oid.
func Parse(s string) (Oid, error) {
	idx := strings.IndexByte(s, '-')
	if idx < 0 {
		return Oid{}, apierr.New(apierr.KindMissingSeparator)
	}
	pfx, val := s[:idx], s[idx+1:]
	if pfx == "" {
		return Oid{}, apierr.New(apierr.KindMissingPrefix)
	}
	if val == "" {
		return Oid{}, apierr.New(apierr.KindMissingValue)
	}
	pfx, err := normalizePrefix(pfx)
	if err != nil {
		return Oid{}, err
	}
	raw, err := encoding.DecodeString(val)
	if err != nil {
		return Oid{}, apierr.Wrap(apierr.KindBase32Decode, err)
	}
	if len(raw) != 16 {
		return Oid{}, apierr.New(apierr.KindBase32Decode)
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return Oid{}, apierr.Wrap(apierr.KindBase32Decode, err)
	}
	if u.Version() != 7 {
		return Oid{}, apierr.New(apierr.KindUnsupportedUUIDVersion)
	}
	return Oid{prefix: pfx, uuid: u}, nil
}

// MustParse is Parse but panics on error; useful for constant test fixtures.
func MustParse(s string) Oid {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// Prefix returns the lowercase 3-character prefix, e.g. "flt".
func (o Oid) Prefix() string { return o.prefix }

// Value returns the base32 encoding of the underlying UUID, without the
// prefix or separator.
func (o Oid) Value() string { return encoding.EncodeToString(o.uuid[:]) }

// UUID returns the underlying UUIDv7.
func (o Oid) UUID() uuid.UUID { return o.uuid }

// IsZero reports whether this is the zero-value Oid (not a real identifier).
func (o Oid) IsZero() bool { return o.prefix == "" }

// String renders "<prefix>-<base32>".
func (o Oid) String() string {
	if o.IsZero() {
		return ""
	}
	return o.prefix + "-" + o.Value()
}

// Equal compares two Oids by (prefix, uuid) value.
func (o Oid) Equal(other Oid) bool {
	return o.prefix == other.prefix && o.uuid == other.uuid
}

// MarshalJSON renders the Oid as its string form.
func (o Oid) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// UnmarshalJSON parses the Oid from its string form.
func (o *Oid) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*o = Oid{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
