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
	"net/url"
	"sync"
)

// headerMap holds headers a caller wants attached to every request a
// Session issues (e.g. a custom User-Agent), independent of anything a
// single call passes in directly.
type headerMap struct {
	sync.Mutex
	mp map[string]string
}

func newHeaderMap() *headerMap {
	return &headerMap{mp: map[string]string{}}
}

func (hm *headerMap) set(k, v string) {
	hm.Lock()
	hm.mp[k] = v
	hm.Unlock()
}

func (hm *headerMap) remove(k string) {
	hm.Lock()
	delete(hm.mp, k)
	hm.Unlock()
}

func (hm *headerMap) populateRequest(hdr http.Header) {
	if hdr == nil {
		return
	}
	hm.Lock()
	for k, v := range hm.mp {
		hdr.Set(k, v)
	}
	hm.Unlock()
}

// queryMap holds query parameters a caller wants attached to every request,
// merged in alongside whatever per-call query string the URL assembly rule
// produces.
type queryMap struct {
	sync.Mutex
	vals url.Values
}

func newQueryMap() *queryMap {
	return &queryMap{vals: make(url.Values)}
}

func (qm *queryMap) set(k, v string) {
	qm.Lock()
	qm.vals.Set(k, v)
	qm.Unlock()
}

func (qm *queryMap) remove(k string) {
	qm.Lock()
	qm.vals.Del(k)
	qm.Unlock()
}

// appendEncode merges the map's values onto an already-assembled raw query
// string q, without re-encoding anything already in q — q is produced by
// the literal, unescaped URL assembly rule and must survive untouched.
func (qm *queryMap) appendEncode(q string) string {
	qm.Lock()
	defer qm.Unlock()
	if len(qm.vals) == 0 {
		return q
	}
	extra := qm.vals.Encode()
	if q == "" {
		return extra
	}
	return q + "&" + extra
}
