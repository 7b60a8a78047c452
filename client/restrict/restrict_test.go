/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package restrict

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seaplane-io/seaplane-go/apisession"
	"github.com/seaplane-io/seaplane-go/auth"
	"github.com/seaplane-io/seaplane-go/base64key"
	"github.com/seaplane-io/seaplane-go/rangecursor"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"jwt","tenant":1,"subdomain":"acme"}`))
	}))
	t.Cleanup(identity.Close)
	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)
	tokens := auth.New("key", identity.URL, nil)
	return New(apisession.New(api.URL, tokens, nil, nil))
}

func TestSingleURLUsesAPIAndTrailingSlash(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"api":"config","directory":"Zm9v","details":{},"state":"Pending"}`))
	})

	dir := base64key.FromUnencoded([]byte("foo"))
	_, err := c.Get(SingleTarget("config", dir))
	if err != nil {
		t.Fatal(err)
	}
	want := "/v1/restrict/config/base64:" + dir.Encoded() + "/"
	if gotPath != want {
		t.Fatalf("got %q, want %q", gotPath, want)
	}
}

func TestAPIRangeURL(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"restrictions":[],"next_api":null,"next_key":null}`))
	})

	from := base64key.FromUnencoded([]byte("start"))
	cursor := rangecursor.New()
	cursor.From = &from
	_, err := c.GetPage(APIRangeTarget("config", cursor))
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v1/restrict/config/" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "from=base64:"+from.Encoded() {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestAllRangeURLBothPresent(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"restrictions":[],"next_api":null,"next_key":null}`))
	})

	api := "locks"
	from := base64key.FromUnencoded([]byte("start"))
	cursor := rangecursor.NewAllRange(&api)
	cursor.From = &from
	_, err := c.GetPage(AllRangeTarget(cursor))
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "from_api=locks&from=base64:"+from.Encoded() {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestAllRangeMixedStateFailsFast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("network should not be reached for mixed cursor state")
	})
	from := base64key.FromUnencoded([]byte("start"))
	cursor := &rangecursor.AllRangeCursor{From: &from} // FromAPI nil, From set: mixed
	_, err := c.GetPage(AllRangeTarget(cursor))
	if err == nil {
		t.Fatal("expected IncorrectRestrictRequestTarget on mixed cursor state")
	}
}
