/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package apierr holds the flat error taxonomy shared by every service
// client and the planning engine. Every error the core returns can be
// inspected with errors.As against *Error, and compared by Kind.
package apierr

import "fmt"

// Kind classifies an error so callers (and the retry wrapper) can make
// decisions without string matching.
type Kind int

const (
	KindUnknown Kind = iota

	// Auth
	KindMissingAPIKey
	KindUnauthorized // triggers a single token refresh + retry
	KindUnknownAPIKey
	KindInvalidRequest
	KindInternalError

	// Local validation
	KindInvalidPrefixChar
	KindPrefixByteLength
	KindMissingPrefix
	KindMissingValue
	KindMissingSeparator
	KindBase32Decode
	KindUnsupportedUUIDVersion
	KindInvalidImageReference
	KindInvalidFlightName
	KindInvalidFormationName
	KindEmptyFlights
	KindConflictingRequirements
	KindMissingUUID
	KindMissingFlightName
	KindMissingFlightImage
	KindNoGatewayFlight
	KindInvalidGatewayFlight

	// Request targeting
	KindMissingFormationName
	KindMissingActiveConfiguration
	KindIncorrectMetadataRequestTarget
	KindIncorrectLocksRequestTarget
	KindIncorrectRestrictRequestTarget

	// Planner
	KindDuplicateName
	KindNoMatchingItem
	KindAmbiguousItem
	KindFlightsInUse
	KindMultipleAtStdin
	KindEndpointInvalidFlight
	KindExistingValue

	// Transport
	KindIO
	KindSerde
	KindHTTPStatus
	KindCanceled
	KindNotFound // signal, not failure: consumed by delete/launch
)

var kindNames = map[Kind]string{
	KindUnknown:                        "unknown",
	KindMissingAPIKey:                  "missing api key",
	KindUnauthorized:                   "unauthorized",
	KindUnknownAPIKey:                  "unknown api key",
	KindInvalidRequest:                 "invalid request",
	KindInternalError:                  "internal error",
	KindInvalidPrefixChar:              "invalid prefix character",
	KindPrefixByteLength:               "invalid prefix length",
	KindMissingPrefix:                  "missing oid prefix",
	KindMissingValue:                   "missing oid value",
	KindMissingSeparator:               "missing oid separator",
	KindBase32Decode:                   "base32 decode failure",
	KindUnsupportedUUIDVersion:         "unsupported uuid version",
	KindInvalidImageReference:          "invalid image reference",
	KindInvalidFlightName:              "invalid flight name",
	KindInvalidFormationName:           "invalid formation name",
	KindEmptyFlights:                   "formation configuration has no flights",
	KindConflictingRequirements:        "allowed and denied sets overlap",
	KindMissingUUID:                    "missing uuid",
	KindMissingFlightName:              "missing flight name",
	KindMissingFlightImage:             "missing flight image",
	KindNoGatewayFlight:                "no gateway flight",
	KindInvalidGatewayFlight:           "invalid gateway flight",
	KindMissingFormationName:           "missing formation name",
	KindMissingActiveConfiguration:     "missing active configuration",
	KindIncorrectMetadataRequestTarget: "incorrect metadata request target",
	KindIncorrectLocksRequestTarget:    "incorrect locks request target",
	KindIncorrectRestrictRequestTarget: "incorrect restrict request target",
	KindDuplicateName:                  "duplicate name",
	KindNoMatchingItem:                 "no matching item",
	KindAmbiguousItem:                  "ambiguous item",
	KindFlightsInUse:                   "flights in use",
	KindMultipleAtStdin:                "multiple flights requested stdin",
	KindEndpointInvalidFlight:          "endpoint references unknown flight",
	KindExistingValue:                  "value already exists",
	KindIO:                             "io error",
	KindSerde:                          "serialization error",
	KindHTTPStatus:                     "http status error",
	KindCanceled:                       "canceled",
	KindNotFound:                       "not found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is the concrete error type returned across the core. It carries a
// Kind for programmatic dispatch, an optional HTTP status for transport
// errors, and a context chain of hints appended by callers closer to the
// user (e.g. "try seaplane formation fetch-remote").
type Error struct {
	Kind       Kind
	Msg        string
	StatusCode int
	Err        error
	hints      []string
}

func (e *Error) Error() string {
	s := e.Msg
	if s == "" {
		s = e.Kind.String()
	}
	if e.StatusCode != 0 {
		s = fmt.Sprintf("%s (http %d)", s, e.StatusCode)
	}
	if e.Err != nil {
		s = fmt.Sprintf("%s: %s", s, e.Err.Error())
	}
	for _, h := range e.hints {
		s += "\n" + h
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, apierr.New(KindNotFound)) work for sentinel-style
// comparisons without caring about message or wrapped error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Context appends a hint that is rendered on its own line when the error is
// printed. Context is purely additive; it never changes the Kind.
func (e *Error) Context(hint string) *Error {
	e2 := *e
	e2.hints = append(append([]string{}, e.hints...), hint)
	return &e2
}

// New builds a bare *Error carrying only a Kind, useful as a comparison
// sentinel with errors.Is/errors.As.
func New(kind Kind) *Error {
	return &Error{Kind: kind, Msg: kind.String()}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying error to a Kind.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// HTTPStatus builds a transport-level error for a raw status code that
// didn't map to a more specific Kind.
func HTTPStatus(code int, body string) *Error {
	return &Error{Kind: KindHTTPStatus, StatusCode: code, Msg: body}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
