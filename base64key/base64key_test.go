/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package base64key

import "testing"

func TestFromUnencodedRoundTrips(t *testing.T) {
	k := FromUnencoded([]byte("foo"))
	if k.Encoded() != "Zm9v" {
		t.Fatalf("expected Zm9v, got %s", k.Encoded())
	}
	raw, err := k.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "foo" {
		t.Fatalf("expected foo, got %s", raw)
	}
}

func TestFromEncodedNeverReencodes(t *testing.T) {
	k := FromEncoded("Zm9v")
	if k.Encoded() != "Zm9v" {
		t.Fatalf("expected passthrough encoding, got %s", k.Encoded())
	}
}

func TestDisplayFormats(t *testing.T) {
	k := FromUnencoded([]byte("bar"))
	if s, err := k.Display(Simple); err != nil || s != "bar" {
		t.Fatalf("Simple: got %q, err %v", s, err)
	}
	if s, err := k.Display(Hex); err != nil || s != "626172" {
		t.Fatalf("Hex: got %q, err %v", s, err)
	}
	if s, err := k.Display(Utf8); err != nil || s != "bar" {
		t.Fatalf("Utf8: got %q, err %v", s, err)
	}
	if s, err := k.Display(Base64); err != nil || s != "YmFy" {
		t.Fatalf("Base64: got %q, err %v", s, err)
	}
}

func TestDisplayUtf8Lossy(t *testing.T) {
	k := FromUnencoded([]byte{0xff, 0xfe, 'h', 'i'})
	s, err := k.Display(Utf8)
	if err != nil {
		t.Fatal(err)
	}
	if s == string([]byte{0xff, 0xfe, 'h', 'i'}) {
		t.Fatal("expected lossy replacement, got raw bytes back")
	}
}
