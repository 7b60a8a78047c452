/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package oid

import (
	"testing"

	"github.com/google/uuid"

	"github.com/seaplane-io/seaplane-go/apierr"
)

func TestParseKnownValue(t *testing.T) {
	o, err := Parse("tst-agc6amh7z527vijkv2cutplwaa")
	if err != nil {
		t.Fatal(err)
	}
	if o.Prefix() != "tst" {
		t.Fatalf("expected prefix tst, got %s", o.Prefix())
	}
	if o.UUID().String() != "0185e030-ffcf-75fa-a12a-ae8549bd7600" {
		t.Fatalf("unexpected uuid %s", o.UUID())
	}
}

func TestParseRoundTrip(t *testing.T) {
	o, err := New("flt")
	if err != nil {
		t.Fatal(err)
	}
	o2, err := Parse(o.String())
	if err != nil {
		t.Fatal(err)
	}
	if !o.Equal(o2) {
		t.Fatalf("round trip mismatch: %s != %s", o, o2)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		kind apierr.Kind
	}{
		{"tst-", apierr.KindMissingValue},
		{"-xxxxxxxxxxxxxxxxxxxxxxxxxxx", apierr.KindMissingPrefix},
		{"abcdefghijklmnopqrstuvwxyz234567", apierr.KindMissingSeparator},
	}
	for _, c := range cases {
		_, err := Parse(c.in)
		if err == nil {
			t.Fatalf("expected error for %q", c.in)
		}
		if !apierr.Is(err, c.kind) {
			t.Fatalf("expected kind %v for %q, got %v", c.kind, c.in, err)
		}
	}
}

func TestParseRejectsNonV7(t *testing.T) {
	v4 := uuid.New() // random UUID is version 4
	encoded := encoding.EncodeToString(v4[:])
	_, err := Parse("tst-" + encoded)
	if err == nil {
		t.Fatal("expected an error for a non-v7 uuid")
	}
	if !apierr.Is(err, apierr.KindUnsupportedUUIDVersion) {
		t.Fatalf("expected KindUnsupportedUUIDVersion, got %v", err)
	}
}

func TestUUIDVersionEnforced(t *testing.T) {
	o, _ := New("flt")
	if o.UUID().Version() != 7 {
		t.Fatalf("expected version 7, got %d", o.UUID().Version())
	}
}
