/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rangecursor implements the {directory, from} pair that drives
// every paginated read over the Metadata, Locks, and Restrict keyspaces.
package rangecursor

import "github.com/seaplane-io/seaplane-go/base64key"

// Cursor drives a paginated range read over a keyspace rooted at an
// optional Directory. From is nil at the start of a walk; GetAllPages-style
// drivers advance it in place by assigning the "next" value returned from
// a page.
type Cursor struct {
	Directory *base64key.Key
	From      *base64key.Key
}

// New starts a cursor at the root directory, from the beginning.
func New() *Cursor {
	return &Cursor{}
}

// WithDirectory scopes the cursor to a directory.
func WithDirectory(dir base64key.Key) *Cursor {
	return &Cursor{Directory: &dir}
}

// Advance sets From to next, which is how a page response moves the
// cursor forward. Passing nil clears From, so the next read starts from the
// beginning again.
func (c *Cursor) Advance(next *base64key.Key) {
	c.From = next
}

// Done reports whether the previous page signalled there is nothing left
// to read; callers pass the "next" value from the page response.
func Done(next *base64key.Key) bool { return next == nil }

// AllRangeCursor is the Restrict service's cross-API variant: it tracks a
// from-API alongside the from-Key, and both must be present or absent
// together — mixed state is a client-construction error, not a network one.
type AllRangeCursor struct {
	FromAPI *string
	From    *base64key.Key
}

// NewAllRange starts an across-API cursor, optionally pinned to a starting
// API (nil means "start at the first API in server order").
func NewAllRange(fromAPI *string) *AllRangeCursor {
	return &AllRangeCursor{FromAPI: fromAPI}
}

// Advance sets both cursor halves from a page's next_api/next_key. The
// caller must pass both nil or both non-nil; the restrict client's GetPage
// rejects a mixed page marker before GetAllPages advances the cursor.
func (c *AllRangeCursor) Advance(nextAPI *string, nextKey *base64key.Key) {
	c.FromAPI = nextAPI
	c.From = nextKey
}

// Done reports whether both halves of the next page marker are absent.
func (c *AllRangeCursor) Done() bool { return c.FromAPI == nil && c.From == nil }

// Mixed reports whether only one half of a page's next marker was set,
// which callers should surface as IncorrectRestrictRequestTarget.
func Mixed(nextAPI *string, nextKey *base64key.Key) bool {
	return (nextAPI == nil) != (nextKey == nil)
}

// Page is one page of a range read: items in server order, plus an opaque
// "next" marker the caller advances the cursor with. T is Base64Key for
// Metadata/Locks.
type Page[T any] struct {
	Items []T
	Next  *base64key.Key
}

// GetAllPages drives fetch repeatedly, concatenating items until the
// server signals there's nothing left (next == nil). Items are returned in
// server order, unmodified and unsorted; it is the server's responsibility
// not to duplicate entries across pages.
func GetAllPages[T any](fetch func() (Page[T], error), advance func(next *base64key.Key)) ([]T, error) {
	var all []T
	for {
		page, err := fetch()
		if err != nil {
			return all, err
		}
		all = append(all, page.Items...)
		if page.Next == nil {
			return all, nil
		}
		advance(page.Next)
	}
}
