/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package locks is the thin client for the distributed Locks service,
// built on apisession.Session plus rangecursor.GetAllPages.
package locks

import (
	"net/http"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/apisession"
	"github.com/seaplane-io/seaplane-go/base64key"
	"github.com/seaplane-io/seaplane-go/rangecursor"
)

const basePath = "/v1/locks/"

// HeldLock is the {name, id, sequencer} triple returned by Acquire and
// required by Release/Renew.
type HeldLock struct {
	Name      base64key.Key `json:"name"`
	ID        base64key.Key `json:"id"`
	Sequencer uint32        `json:"sequencer"`
}

// LockInfo is the information returned about a lock by name, independent
// of whether the caller holds it.
type LockInfo struct {
	Name      base64key.Key `json:"name"`
	Sequencer uint32        `json:"sequencer"`
	TTL       uint32        `json:"ttl"`
}

// Target selects which endpoint family the next call addresses.
type Target struct {
	singleLock *base64key.Key
	heldLock   *HeldLock
	cursor     *rangecursor.Cursor
}

// SingleLockTarget addresses operations keyed by lock name alone
// (Acquire, GetLockInfo).
func SingleLockTarget(name base64key.Key) Target { return Target{singleLock: &name} }

// HeldLockTarget addresses operations on a lock the caller already holds
// (Release, Renew).
func HeldLockTarget(lock HeldLock) Target { return Target{heldLock: &lock} }

// RangeTarget addresses a paginated range read.
func RangeTarget(c *rangecursor.Cursor) Target { return Target{cursor: c} }

// Client is the Locks service client.
type Client struct {
	session *apisession.Session
}

// New builds a Locks client over an already-configured Session.
func New(session *apisession.Session) *Client { return &Client{session: session} }

func (c *Client) singleLockURL(t Target, query string) (string, error) {
	if t.singleLock == nil {
		return "", apierr.New(apierr.KindIncorrectLocksRequestTarget)
	}
	return c.session.URL(basePath+apisession.KeyPath(*t.singleLock), query), nil
}

func (c *Client) heldLockURL(t Target, extraQuery string) (string, error) {
	if t.heldLock == nil {
		return "", apierr.New(apierr.KindIncorrectLocksRequestTarget)
	}
	query := "id=" + apisession.KeyPath(t.heldLock.ID)
	if extraQuery != "" {
		query += "&" + extraQuery
	}
	return c.session.URL(basePath+apisession.KeyPath(t.heldLock.Name), query), nil
}

func (c *Client) rangeURL(t Target) (string, error) {
	if t.cursor == nil {
		return "", apierr.New(apierr.KindIncorrectLocksRequestTarget)
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

// Acquire attempts to acquire the lock named by Target with the given TTL
// (seconds) and client ID. Target must be a SingleLockTarget.
func (c *Client) Acquire(t Target, ttl uint32, clientID string) (HeldLock, error) {
	if t.singleLock == nil {
		return HeldLock{}, apierr.New(apierr.KindIncorrectLocksRequestTarget)
	}
	url, err := c.singleLockURL(t, "ttl="+strconv.FormatUint(uint64(ttl), 10)+"&client-id="+clientID)
	if err != nil {
		return HeldLock{}, err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodPost, url, nil)
	})
	if err != nil {
		return HeldLock{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return HeldLock{}, err
	}
	var resp struct {
		ID        base64key.Key `json:"id"`
		Sequencer uint32        `json:"sequencer"`
	}
	if err := gojson.Unmarshal(res.Body, &resp); err != nil {
		return HeldLock{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return HeldLock{Name: *t.singleLock, ID: resp.ID, Sequencer: resp.Sequencer}, nil
}

// Release releases the held lock. Target must be a HeldLockTarget.
func (c *Client) Release(t Target) error {
	url, err := c.heldLockURL(t, "")
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

// Renew extends the held lock's TTL (seconds). Target must be a
// HeldLockTarget.
func (c *Client) Renew(t Target, ttl uint32) error {
	url, err := c.heldLockURL(t, "ttl="+strconv.FormatUint(uint64(ttl), 10))
	if err != nil {
		return err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodPatch, url, nil)
	})
	if err != nil {
		return err
	}
	return statusErr(res.Status, res.Body)
}

// GetLockInfo returns information about the lock named by Target. Target
// must be a SingleLockTarget.
func (c *Client) GetLockInfo(t Target) (LockInfo, error) {
	url, err := c.singleLockURL(t, "")
	if err != nil {
		return LockInfo{}, err
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return LockInfo{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return LockInfo{}, err
	}
	var info LockInfo
	if err := gojson.Unmarshal(res.Body, &info); err != nil {
		return LockInfo{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return info, nil
}

// Page is one page of a locks range read.
type Page = rangecursor.Page[base64key.Key]

type lockInfoRange struct {
	Locks []LockInfo     `json:"lock_infos"`
	Next  *base64key.Key `json:"next"`
}

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
	var lir lockInfoRange
	if err := gojson.Unmarshal(res.Body, &lir); err != nil {
		return Page{}, apierr.Wrap(apierr.KindSerde, err)
	}
	items := make([]base64key.Key, len(lir.Locks))
	for i, l := range lir.Locks {
		items[i] = l.Name
	}
	return Page{Items: items, Next: lir.Next}, nil
}

// GetAllPages drives GetPage to completion over t's cursor. Target must be
// a RangeTarget.
func (c *Client) GetAllPages(t Target) ([]base64key.Key, error) {
	if t.cursor == nil {
		return nil, apierr.New(apierr.KindIncorrectLocksRequestTarget)
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
