/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package endpoint

import (
	"testing"

	"github.com/seaplane-io/seaplane-go/apierr"
)

func TestParseHTTP(t *testing.T) {
	k, err := Parse("http:/foo/bar")
	if err != nil {
		t.Fatal(err)
	}
	if k.Kind != Http || k.Path != "/foo/bar" {
		t.Fatalf("unexpected key %+v", k)
	}
	if k.String() != "http:/foo/bar" {
		t.Fatalf("round trip mismatch: %q", k.String())
	}
}

func TestParseTCPAndUDP(t *testing.T) {
	k, err := Parse("tcp:8080")
	if err != nil {
		t.Fatal(err)
	}
	if k.Kind != Tcp || k.Port != 8080 {
		t.Fatalf("unexpected key %+v", k)
	}
	if k.String() != "tcp:8080" {
		t.Fatalf("round trip mismatch: %q", k.String())
	}

	k2, err := Parse("udp:53")
	if err != nil {
		t.Fatal(err)
	}
	if k2.Kind != Udp || k2.Port != 53 {
		t.Fatalf("unexpected key %+v", k2)
	}
}

func TestHTTPPathMustStartWithSlash(t *testing.T) {
	_, err := NewHTTP("foo/bar")
	if !apierr.Is(err, apierr.KindInvalidRequest) {
		t.Fatalf("expected KindInvalidRequest, got %v", err)
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("web:8080")
	if err != nil {
		t.Fatal(err)
	}
	if v.FlightName != "web" || v.Port != 8080 {
		t.Fatalf("unexpected value %+v", v)
	}
	if v.String() != "web:8080" {
		t.Fatalf("round trip mismatch: %q", v.String())
	}
}

func TestParseUnknownScheme(t *testing.T) {
	_, err := Parse("ftp:/foo")
	if !apierr.Is(err, apierr.KindInvalidRequest) {
		t.Fatalf("expected KindInvalidRequest, got %v", err)
	}
}
