/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package imageref parses and renders container image references in the
// form domain/path[:tag][@digest], the grammar a Flight's image field uses.
package imageref

import (
	"strings"

	"github.com/seaplane-io/seaplane-go/apierr"
)

const (
	nameTotalLengthMax = 255
	tagTotalLengthMax  = 127
)

// Reference is a parsed container image reference.
type Reference struct {
	Domain string
	Path   string
	Tag    string // "" means absent
	Digest string // "" means absent
}

// Equal is the wildcard comparison used by flight deduplication: an absent
// Tag or Digest on either side matches any value on the other side.
func (r Reference) Equal(other Reference) bool {
	if r.Domain != other.Domain || r.Path != other.Path {
		return false
	}
	if r.Tag != "" && other.Tag != "" && r.Tag != other.Tag {
		return false
	}
	if r.Digest != "" && other.Digest != "" && r.Digest != other.Digest {
		return false
	}
	return true
}

// EqualStrict requires every field, including absent ones, to match
// literally. Used by round-trip comparisons.
func (r Reference) EqualStrict(other Reference) bool {
	return r.Domain == other.Domain && r.Path == other.Path &&
		r.Tag == other.Tag && r.Digest == other.Digest
}

// String renders domain/path[:tag][@digest].
func (r Reference) String() string {
	var b strings.Builder
	b.WriteString(r.Domain)
	b.WriteByte('/')
	b.WriteString(r.Path)
	if r.Tag != "" {
		b.WriteByte(':')
		b.WriteString(r.Tag)
	}
	if r.Digest != "" {
		b.WriteByte('@')
		b.WriteString(r.Digest)
	}
	return b.String()
}

// Parse parses s per the reference grammar:
//
//	reference := name [ ":" tag ] [ "@" digest ]
//	name      := domain "/" path
func Parse(s string) (Reference, error) {
	name, digest, _ := strings.Cut(s, "@")

	// A ':' after the last '/' starts the tag; one before it belongs to the
	// domain (a registry port, as in "localhost:5000/repo").
	var tag string
	if i := strings.LastIndexByte(name, ':'); i > strings.LastIndexByte(name, '/') {
		name, tag = name[:i], name[i+1:]
	}

	domain, path, ok := strings.Cut(name, "/")
	if !ok {
		return Reference{}, apierr.Newf(apierr.KindInvalidImageReference, "invalid reference format: %q", s)
	}

	if err := validateDomain(domain); err != nil {
		return Reference{}, err
	}
	if len(domain)+len(path) > nameTotalLengthMax {
		return Reference{}, apierr.Newf(apierr.KindInvalidImageReference, "repository name must not be more than %d characters", nameTotalLengthMax)
	}
	if tag != "" {
		if err := validateTag(tag); err != nil {
			return Reference{}, err
		}
	}
	if digest != "" {
		if err := validateDigest(digest); err != nil {
			return Reference{}, err
		}
	}

	return Reference{Domain: domain, Path: path, Tag: tag, Digest: digest}, nil
}

// splitAt cuts s at the first occurrence of either delimiter, returning the
// prefix and the remainder starting at the delimiter (inclusive). A zero
// byte for the second delimiter disables it.
func splitAt(s string, d1, d2 byte) (prefix, rest string) {
	for i := 0; i < len(s); i++ {
		if s[i] == d1 || (d2 != 0 && s[i] == d2) {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func validateDomain(domain string) error {
	if domain == "localhost" {
		return nil
	}
	if strings.ContainsAny(domain, ".:") {
		return nil
	}
	return apierr.Newf(apierr.KindInvalidImageReference, "invalid domain format: %q", domain)
}

func validateTag(tag string) error {
	if len(tag) == 0 {
		return apierr.Newf(apierr.KindInvalidImageReference, "invalid tag format: %q", tag)
	}
	c := tag[0]
	if !isAlnum(c) && c != '_' {
		return apierr.Newf(apierr.KindInvalidImageReference, "invalid tag format: %q", tag)
	}
	if len(tag) > tagTotalLengthMax {
		return apierr.Newf(apierr.KindInvalidImageReference, "invalid tag format: %q", tag)
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if !isAlnum(c) && c != '.' && c != '-' && c != '_' {
			return apierr.Newf(apierr.KindInvalidImageReference, "invalid tag format: %q", tag)
		}
	}
	return nil
}

func validateDigest(digest string) error {
	algo, hex, ok := strings.Cut(digest, ":")
	if !ok || algo == "" || hex == "" {
		return apierr.Newf(apierr.KindInvalidImageReference, "invalid digest format: %q", digest)
	}
	for i := 0; i < len(algo); i++ {
		if !isAlnum(algo[i]) {
			return apierr.Newf(apierr.KindInvalidImageReference, "invalid digest format: %q", digest)
		}
	}
	for i := 0; i < len(hex); i++ {
		if !isHex(hex[i]) {
			return apierr.Newf(apierr.KindInvalidImageReference, "invalid digest format: %q", digest)
		}
	}
	return nil
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// MarshalJSON renders the reference through String, matching the wire form.
func (r Reference) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON parses the wire string form through Parse.
func (r *Reference) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	ref, err := Parse(s)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
