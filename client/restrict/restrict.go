/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package restrict is the thin client for the Restrictions service, the
// only one of the four with a cross-API range target (AllRange) alongside
// the usual single-key and single-API-range targets.
package restrict

import (
	"bytes"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/apisession"
	"github.com/seaplane-io/seaplane-go/base64key"
	"github.com/seaplane-io/seaplane-go/rangecursor"
)

const basePath = "/v1/restrict/"

// State is a restriction's enforcement state.
type State string

const (
	Pending  State = "Pending"
	Enforced State = "Enforced"
)

// Details carries the provider/region allow/deny sets sent with Set.
type Details struct {
	RegionsAllowed   []string `json:"regions_allowed,omitempty"`
	RegionsDenied    []string `json:"regions_denied,omitempty"`
	ProvidersAllowed []string `json:"providers_allowed,omitempty"`
	ProvidersDenied  []string `json:"providers_denied,omitempty"`
}

// Restriction is the full record returned by Get/GetPage.
type Restriction struct {
	API       string        `json:"api"`
	Directory base64key.Key `json:"directory"`
	Details   Details       `json:"details"`
	State     State         `json:"state"`
}

// Target selects which endpoint family the next call addresses.
type Target struct {
	api        string
	dir        *base64key.Key
	apiRange   bool
	allRange   bool
	cursor     *rangecursor.Cursor
	allCursor  *rangecursor.AllRangeCursor
}

// SingleTarget addresses a single API-directory restriction.
func SingleTarget(api string, dir base64key.Key) Target {
	return Target{api: api, dir: &dir}
}

// APIRangeTarget addresses a paginated range read scoped to one API.
func APIRangeTarget(api string, c *rangecursor.Cursor) Target {
	return Target{api: api, apiRange: true, cursor: c}
}

// AllRangeTarget addresses a paginated range read across every API.
func AllRangeTarget(c *rangecursor.AllRangeCursor) Target {
	return Target{allRange: true, allCursor: c}
}

// Client is the Restrict service client.
type Client struct {
	session *apisession.Session
}

// New builds a Restrict client over an already-configured Session.
func New(session *apisession.Session) *Client { return &Client{session: session} }

func (c *Client) singleURL(t Target) (string, error) {
	if t.dir == nil || t.apiRange || t.allRange {
		return "", apierr.New(apierr.KindIncorrectRestrictRequestTarget)
	}
	return c.session.URL(basePath+t.api+"/"+apisession.DirectoryPath(*t.dir), ""), nil
}

func (c *Client) rangeURL(t Target) (string, error) {
	switch {
	case t.apiRange:
		if t.cursor == nil {
			return "", apierr.New(apierr.KindIncorrectRestrictRequestTarget)
		}
		query := ""
		if t.cursor.From != nil {
			query = apisession.FromQuery(*t.cursor.From)
		}
		return c.session.URL(basePath+t.api+"/", query), nil
	case t.allRange:
		if t.allCursor == nil {
			return "", apierr.New(apierr.KindIncorrectRestrictRequestTarget)
		}
		if rangecursor.Mixed(t.allCursor.FromAPI, t.allCursor.From) {
			return "", apierr.New(apierr.KindIncorrectRestrictRequestTarget)
		}
		query := ""
		if t.allCursor.FromAPI != nil && t.allCursor.From != nil {
			query = "from_api=" + *t.allCursor.FromAPI + "&" + apisession.FromQuery(*t.allCursor.From)
		}
		return c.session.URL(basePath, query), nil
	default:
		return "", apierr.New(apierr.KindIncorrectRestrictRequestTarget)
	}
}

// Get fetches restriction details for Target's API-directory pair. Target
// must be a SingleTarget.
func (c *Client) Get(t Target) (Restriction, error) {
	url, err := c.singleURL(t)
	if err != nil {
		return Restriction{}, err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return Restriction{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return Restriction{}, err
	}
	var r Restriction
	if err := gojson.Unmarshal(res.Body, &r); err != nil {
		return Restriction{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return r, nil
}

// Set writes restriction details for Target's API-directory pair. Target
// must be a SingleTarget.
func (c *Client) Set(t Target, details Details) error {
	url, err := c.singleURL(t)
	if err != nil {
		return err
	}
	body, err := gojson.Marshal(details)
	if err != nil {
		return apierr.Wrap(apierr.KindSerde, err)
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	return statusErr(res.Status, res.Body)
}

// Delete removes the restriction for Target's API-directory pair. Target
// must be a SingleTarget.
func (c *Client) Delete(t Target) error {
	url, err := c.singleURL(t)
	if err != nil {
		return err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodDelete, url, nil)
	})
	if err != nil {
		return err
	}
	return statusErr(res.Status, res.Body)
}

// Page is one page of a restrict range read.
type Page struct {
	Items  []Restriction
	NextAPI *string
	Next    *base64key.Key
}

type restrictionRange struct {
	Restrictions []Restriction  `json:"restrictions"`
	NextAPI      *string        `json:"next_api"`
	NextKey      *base64key.Key `json:"next_key"`
}

// GetPage fetches a single page for Target's range. Target must be an
// APIRangeTarget or AllRangeTarget.
func (c *Client) GetPage(t Target) (Page, error) {
	url, err := c.rangeURL(t)
	if err != nil {
		return Page{}, err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return Page{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return Page{}, err
	}
	var rr restrictionRange
	if err := gojson.Unmarshal(res.Body, &rr); err != nil {
		return Page{}, apierr.Wrap(apierr.KindSerde, err)
	}
	if rangecursor.Mixed(rr.NextAPI, rr.NextKey) && t.allRange {
		return Page{}, apierr.New(apierr.KindIncorrectRestrictRequestTarget)
	}
	return Page{Items: rr.Restrictions, NextAPI: rr.NextAPI, Next: rr.NextKey}, nil
}

// GetAllPages drives GetPage to completion, advancing t's cursor (or
// all-range cursor) after each page. Target must be an APIRangeTarget or
// AllRangeTarget.
func (c *Client) GetAllPages(t Target) ([]Restriction, error) {
	var all []Restriction
	for {
		page, err := c.GetPage(t)
		if err != nil {
			return all, err
		}
		all = append(all, page.Items...)
		if t.apiRange {
			if page.Next == nil {
				return all, nil
			}
			t.cursor.Advance(page.Next)
		} else if t.allRange {
			if page.Next == nil && page.NextAPI == nil {
				return all, nil
			}
			t.allCursor.Advance(page.NextAPI, page.Next)
		} else {
			return all, apierr.New(apierr.KindIncorrectRestrictRequestTarget)
		}
	}
}

func statusErr(status int, body []byte) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return apierr.New(apierr.KindUnauthorized)
	case http.StatusNotFound:
		return apierr.New(apierr.KindNotFound)
	default:
		return apierr.HTTPStatus(status, string(body))
	}
}
