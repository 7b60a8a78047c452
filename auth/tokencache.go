/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package auth implements TokenCache, which exchanges a long-lived API key
// for the short-lived bearer token every service call needs, and caches it
// until something downstream forces a refresh.
package auth

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"

	"github.com/seaplane-io/seaplane-go/apierr"
)

// AccessToken is the short-lived (~60s) credential issued by the identity
// endpoint. It is never persisted to disk; the identity response is always
// its source of truth.
type AccessToken struct {
	JWT       string `json:"token"`
	Tenant    uint64 `json:"tenant"`
	Subdomain string `json:"subdomain"`
}

// TokenCache wraps a single API key and the most recently acquired
// AccessToken. It is not time-aware: it holds whatever token it last
// acquired until Refresh is called, which is driven by a downstream
// 401/NotLoggedIn, not by a clock.
type TokenCache struct {
	apiKey      string
	identityURL string
	httpClient  *http.Client

	mtx   sync.Mutex
	token *AccessToken
}

// New builds a TokenCache for the given API key and identity service base
// URL (e.g. "https://identity.cplane.cloud").
func New(apiKey, identityURL string, httpClient *http.Client) *TokenCache {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenCache{apiKey: apiKey, identityURL: identityURL, httpClient: httpClient}
}

// Token returns a cached AccessToken if one is held, otherwise it performs
// POST {identityURL}/token and caches the result.
func (c *TokenCache) Token() (*AccessToken, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.token != nil {
		return c.token, nil
	}
	tok, err := c.fetch()
	if err != nil {
		return nil, err
	}
	c.token = tok
	return tok, nil
}

// Refresh drops the cached token so the next call to Token reacquires one.
func (c *TokenCache) Refresh() {
	c.mtx.Lock()
	c.token = nil
	c.mtx.Unlock()
}

func (c *TokenCache) fetch() (*AccessToken, error) {
	if c.apiKey == "" {
		return nil, apierr.New(apierr.KindMissingAPIKey)
	}

	uri := strings.TrimRight(c.identityURL, "/") + "/token"
	req, err := http.NewRequest(http.MethodPost, uri, nil)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindIO, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindIO, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindIO, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, apierr.New(apierr.KindInvalidRequest)
	case http.StatusForbidden:
		return nil, apierr.New(apierr.KindUnknownAPIKey)
	case http.StatusInternalServerError:
		return nil, apierr.New(apierr.KindInternalError)
	default:
		return nil, apierr.HTTPStatus(resp.StatusCode, string(body))
	}

	return decodeTokenResponse(body)
}

// decodeTokenResponse accepts either the full JSON shape or a bare JWT text
// body, per the identity service's two observed response forms.
func decodeTokenResponse(body []byte) (*AccessToken, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var tok AccessToken
		if err := gojson.Unmarshal(trimmed, &tok); err != nil {
			return nil, apierr.Wrap(apierr.KindSerde, err)
		}
		return &tok, nil
	}
	return &AccessToken{JWT: string(trimmed)}, nil
}
