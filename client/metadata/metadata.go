/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package metadata is the thin client for the Metadata key-value service,
// built on apisession.Session plus rangecursor.GetAllPages.
package metadata

import (
	"bytes"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/apisession"
	"github.com/seaplane-io/seaplane-go/base64key"
	"github.com/seaplane-io/seaplane-go/rangecursor"
)

const basePath = "/v1/config/"

// Target selects which endpoint family the next call addresses: a single
// key, or a paginated range.
type Target struct {
	key    *base64key.Key
	cursor *rangecursor.Cursor
}

// KeyTarget addresses a single key.
func KeyTarget(k base64key.Key) Target { return Target{key: &k} }

// RangeTarget addresses a paginated range read.
func RangeTarget(c *rangecursor.Cursor) Target { return Target{cursor: c} }

// Client is the Metadata service client.
type Client struct {
	session *apisession.Session
}

// New builds a Metadata client over an already-configured Session.
func New(session *apisession.Session) *Client { return &Client{session: session} }

func (c *Client) singleKeyURL(t Target) (string, error) {
	if t.key == nil {
		return "", apierr.New(apierr.KindIncorrectMetadataRequestTarget)
	}
	return c.session.URL(basePath+apisession.KeyPath(*t.key), ""), nil
}

func (c *Client) rangeURL(t Target) (string, error) {
	if t.cursor == nil {
		return "", apierr.New(apierr.KindIncorrectMetadataRequestTarget)
	}
	path := basePath
	if t.cursor.Directory != nil {
		path += apisession.DirectoryPath(*t.cursor.Directory)
	}
	query := ""
	if t.cursor.From != nil {
		query = apisession.FromQuery(*t.cursor.From)
	}
	return c.session.URL(path, query), nil
}

type keyValue struct {
	Key   base64key.Key `json:"key"`
	Value base64key.Key `json:"value"`
}

type keyValueRange struct {
	KVs     []keyValue     `json:"kvs"`
	NextKey *base64key.Key `json:"next_key"`
}

// GetValue fetches the value at Target's key. Target must be a KeyTarget.
func (c *Client) GetValue(t Target) (base64key.Key, error) {
	url, err := c.singleKeyURL(t)
	if err != nil {
		return base64key.Key{}, err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return base64key.Key{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return base64key.Key{}, err
	}
	var kv keyValue
	if err := gojson.Unmarshal(res.Body, &kv); err != nil {
		return base64key.Key{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return kv.Value, nil
}

// PutValue writes value at Target's key with Content-Type
// application/octet-stream, sending the base64 wire form as the body
// verbatim. Target must be a KeyTarget.
func (c *Client) PutValue(t Target, value base64key.Key) error {
	url, err := c.singleKeyURL(t)
	if err != nil {
		return err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPut, url, bytes.NewBufferString(value.Encoded()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		return req, nil
	})
	if err != nil {
		return err
	}
	return statusErr(res.Status, res.Body)
}

// DeleteValue deletes the value at Target's key. Target must be a
// KeyTarget.
func (c *Client) DeleteValue(t Target) error {
	url, err := c.singleKeyURL(t)
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

// Page is one page of a metadata range read.
type Page = rangecursor.Page[base64key.Key]

// GetPage fetches a single page for Target's range cursor. Target must be
// a RangeTarget.
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
	var kvr keyValueRange
	if err := gojson.Unmarshal(res.Body, &kvr); err != nil {
		return Page{}, apierr.Wrap(apierr.KindSerde, err)
	}
	items := make([]base64key.Key, len(kvr.KVs))
	for i, kv := range kvr.KVs {
		items[i] = kv.Key
	}
	return Page{Items: items, Next: kvr.NextKey}, nil
}

// GetAllPages drives GetPage to completion over t's cursor, mutating the
// cursor's From field as each page is consumed. Target must be a
// RangeTarget.
func (c *Client) GetAllPages(t Target) ([]base64key.Key, error) {
	if t.cursor == nil {
		return nil, apierr.New(apierr.KindIncorrectMetadataRequestTarget)
	}
	return rangecursor.GetAllPages(
		func() (Page, error) { return c.GetPage(t) },
		t.cursor.Advance,
	)
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
