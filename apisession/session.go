/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package apisession is the authenticated transport shared by every
// service client (Compute, Metadata, Locks, Restrict): it owns URL
// assembly for Base64Key path/query segments and wraps every call in a
// single retry-on-401 attempt driven by auth.TokenCache.
package apisession

import (
	"io"
	"net/http"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/auth"
	"github.com/seaplane-io/seaplane-go/base64key"
	"github.com/seaplane-io/seaplane-go/objlog"
)

// Session is the per-service authenticated HTTP client. One Session talks
// to one service's base URL; the Compute/Metadata/Locks/Restrict clients
// each hold their own Session and layer their own request-target sum type
// and path/query assembly on top of it.
type Session struct {
	baseURL string
	tokens  *auth.TokenCache
	client  *http.Client
	log     objlog.ObjLog

	hm *headerMap
	qm *queryMap
}

// New builds a Session against baseURL (e.g. "https://compute.cplane.cloud"),
// sharing the given TokenCache with every other Session that talks to the
// same identity-backed account. A nil httpClient uses http.DefaultClient; a
// nil log discards every trace.
func New(baseURL string, tokens *auth.TokenCache, httpClient *http.Client, log objlog.ObjLog) *Session {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log, _ = objlog.NewNilLogger()
	}
	return &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  httpClient,
		log:     log,
		hm:      newHeaderMap(),
		qm:      newQueryMap(),
	}
}

// SetHeader attaches a header to every request this Session issues from now
// on, e.g. a custom User-Agent.
func (s *Session) SetHeader(k, v string) { s.hm.set(k, v) }

// RemoveHeader undoes SetHeader.
func (s *Session) RemoveHeader(k string) { s.hm.remove(k) }

// SetQuery attaches a query parameter to every request this Session issues,
// merged in alongside whatever per-call path/query the caller assembled.
func (s *Session) SetQuery(k, v string) { s.qm.set(k, v) }

// RemoveQuery undoes SetQuery.
func (s *Session) RemoveQuery(k string) { s.qm.remove(k) }

// URL joins the Session's base URL, a path, and a raw (already-escaped or
// deliberately unescaped, per the Base64Key assembly rule) query string.
func (s *Session) URL(path, rawQuery string) string {
	u := s.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// KeyPath is the base64:<encoded> path segment for a key. It is never
// URL-encoded again: the encoded form is already URL-safe.
func KeyPath(k base64key.Key) string { return "base64:" + k.Encoded() }

// DirectoryPath is KeyPath with the trailing slash every directory segment
// carries.
func DirectoryPath(k base64key.Key) string { return KeyPath(k) + "/" }

// FromQuery is the literal, unescaped "from=base64:<encoded>" query
// fragment used by every paginated range read.
func FromQuery(k base64key.Key) string { return "from=" + KeyPath(k) }

// Result is the outcome of one retry-wrapped call: the final HTTP status
// code and response body. Mapping status -> apierr.Kind is the calling
// service client's job, since the Unauthorized/NotLoggedIn kind name (and
// any other service-specific mapping) differs per service.
type Result struct {
	Status int
	Body   []byte
}

// Execute runs build, issues the request with the session's access token
// attached, and on a 401 response refreshes the token and retries exactly
// once. build must return a fresh, unconsumed *http.Request each call,
// since a body reader can't be replayed after a failed attempt.
func (s *Session) Execute(build func() (*http.Request, error)) (Result, error) {
	res, err := s.attempt(build)
	if err != nil {
		return Result{}, err
	}
	if res.Status == http.StatusUnauthorized {
		s.tokens.Refresh()
		res, err = s.attempt(build)
		if err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func (s *Session) attempt(build func() (*http.Request, error)) (Result, error) {
	tok, err := s.tokens.Token()
	if err != nil {
		return Result{}, err
	}
	req, err := build()
	if err != nil {
		return Result{}, apierr.Wrap(apierr.KindIO, err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.JWT)
	s.hm.populateRequest(req.Header)
	req.URL.RawQuery = s.qm.appendEncode(req.URL.RawQuery)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Log(req.Method, req.URL.String(), nil)
		return Result{}, apierr.Wrap(apierr.KindIO, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apierr.Wrap(apierr.KindIO, err)
	}
	s.log.Log(req.Method, req.URL.String(), logObject(body))
	return Result{Status: resp.StatusCode, Body: body}, nil
}

// logObject decodes a response body for tracing purposes; a body that
// isn't JSON (or is empty) is logged as the raw string instead of being
// dropped.
func logObject(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var obj interface{}
	if err := gojson.Unmarshal(body, &obj); err != nil {
		return string(body)
	}
	return obj
}
