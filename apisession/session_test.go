/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package apisession

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seaplane-io/seaplane-go/auth"
	"github.com/seaplane-io/seaplane-go/base64key"
)

func TestExecuteRetriesExactlyOnceOn401(t *testing.T) {
	var tokenCalls, apiCalls int

	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Write([]byte(`{"token":"jwt-` + itoa(tokenCalls) + `","tenant":1,"subdomain":"acme"}`))
	}))
	defer identity.Close()

	var api *httptest.Server
	api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if r.Header.Get("Authorization") == "Bearer jwt-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	tokens := auth.New("key", identity.URL, nil)
	sess := New(api.URL, tokens, nil, nil)

	res, err := sess.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, sess.URL("/v1/whatever", ""), nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != http.StatusOK {
		t.Fatalf("expected final 200, got %d", res.Status)
	}
	if apiCalls != 2 {
		t.Fatalf("expected exactly 2 api calls (1 retry), got %d", apiCalls)
	}
	if tokenCalls != 2 {
		t.Fatalf("expected a token refresh after the 401, got %d token calls", tokenCalls)
	}
}

func TestExecuteDoesNotRetryTwice(t *testing.T) {
	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"jwt","tenant":1,"subdomain":"acme"}`))
	}))
	defer identity.Close()

	var apiCalls int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	tokens := auth.New("key", identity.URL, nil)
	sess := New(api.URL, tokens, nil, nil)

	res, err := sess.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, sess.URL("/v1/whatever", ""), nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("expected the second 401 to surface unchanged, got %d", res.Status)
	}
	if apiCalls != 2 {
		t.Fatalf("expected exactly 2 api calls total, got %d", apiCalls)
	}
}

func TestURLAssemblyForKeysAndRanges(t *testing.T) {
	sess := New("https://metadata.cplane.cloud", nil, nil, nil)
	dir := base64key.FromUnencoded([]byte("Pequod!"))
	from := base64key.FromUnencoded([]byte("Queequeg"))

	path := "/v1/config/" + DirectoryPath(dir)
	query := FromQuery(from)
	got := sess.URL(path, query)
	want := "https://metadata.cplane.cloud/v1/config/base64:" + dir.Encoded() + "/?from=base64:" + from.Encoded()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
