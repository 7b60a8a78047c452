/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seaplane-io/seaplane-go/apisession"
	"github.com/seaplane-io/seaplane-go/auth"
	"github.com/seaplane-io/seaplane-go/base64key"
	"github.com/seaplane-io/seaplane-go/rangecursor"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"jwt","tenant":1,"subdomain":"acme"}`))
	}))
	t.Cleanup(identity.Close)

	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	tokens := auth.New("key", identity.URL, nil)
	sess := apisession.New(api.URL, tokens, nil, nil)
	return New(sess), api
}

func TestGetValueIssuesExpectedBase64Path(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"key":"Zm9v","value":"YmFy"}`))
	})

	key := base64key.FromUnencoded([]byte("foo"))
	v, err := c.GetValue(KeyTarget(key))
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v1/config/base64:Zm9v" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if v.Encoded() != "YmFy" {
		t.Fatalf("unexpected value %q", v.Encoded())
	}
}

func TestRangeListWithFromIssuesTrailingSlashAndFromQuery(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"kvs":[],"next_key":null}`))
	})

	dir := base64key.FromUnencoded([]byte("Pequod!"))
	from := base64key.FromUnencoded([]byte("Queequeg"))
	cursor := rangecursor.WithDirectory(dir)
	cursor.From = &from

	_, err := c.GetPage(RangeTarget(cursor))
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v1/config/base64:"+dir.Encoded()+"/" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "from=base64:"+from.Encoded() {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestGetValueWithRangeTargetFailsFast(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("network should not be reached for a mistargeted call")
	})
	_, err := c.GetValue(RangeTarget(rangecursor.New()))
	if err == nil {
		t.Fatal("expected IncorrectMetadataRequestTarget")
	}
}

func TestGetAllPagesConcatenatesAndStops(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"kvs":[{"key":"YQ","value":"MQ"}],"next_key":"Yg"}`))
		} else {
			w.Write([]byte(`{"kvs":[{"key":"Yg","value":"Mg"}],"next_key":null}`))
		}
	})

	cursor := rangecursor.New()
	items, err := c.GetAllPages(RangeTarget(cursor))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items across pages, got %d", len(items))
	}
	if calls != 2 {
		t.Fatalf("expected 2 page requests, got %d", calls)
	}
}
