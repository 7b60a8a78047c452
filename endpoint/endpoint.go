/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package endpoint holds the total parser/printer for endpoint keys, a
// sum type over {Http(path) | Tcp(port) | Udp(port)} that the wire
// protocol represents as a single string such as "http:/foo/bar".
package endpoint

import (
	"strconv"
	"strings"

	"github.com/seaplane-io/seaplane-go/apierr"
)

// Kind discriminates which variant a Key holds.
type Kind int

const (
	Http Kind = iota
	Tcp
	Udp
)

// Key is an endpoint key: exactly one of Path (Http) or Port (Tcp/Udp) is
// meaningful, selected by Kind.
type Key struct {
	Kind Kind
	Path string // set when Kind == Http; always starts with "/"
	Port uint16 // set when Kind == Tcp or Kind == Udp
}

// NewHTTP builds an Http endpoint key. path must start with "/".
func NewHTTP(path string) (Key, error) {
	if !strings.HasPrefix(path, "/") {
		return Key{}, apierr.Newf(apierr.KindInvalidRequest, "http endpoint path must start with /: %q", path)
	}
	return Key{Kind: Http, Path: path}, nil
}

// NewTCP builds a Tcp endpoint key.
func NewTCP(port uint16) Key { return Key{Kind: Tcp, Port: port} }

// NewUDP builds a Udp endpoint key.
func NewUDP(port uint16) Key { return Key{Kind: Udp, Port: port} }

// String renders the wire form: "http:<path>", "tcp:<port>", or
// "udp:<port>".
func (k Key) String() string {
	switch k.Kind {
	case Http:
		return "http:" + k.Path
	case Tcp:
		return "tcp:" + strconv.Itoa(int(k.Port))
	case Udp:
		return "udp:" + strconv.Itoa(int(k.Port))
	default:
		return ""
	}
}

// Parse parses the wire form of an endpoint key.
func Parse(s string) (Key, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, apierr.Newf(apierr.KindInvalidRequest, "invalid endpoint key: %q", s)
	}
	switch scheme {
	case "http":
		return NewHTTP(rest)
	case "tcp":
		port, err := parsePort(rest)
		if err != nil {
			return Key{}, err
		}
		return NewTCP(port), nil
	case "udp":
		port, err := parsePort(rest)
		if err != nil {
			return Key{}, err
		}
		return NewUDP(port), nil
	default:
		return Key{}, apierr.Newf(apierr.KindInvalidRequest, "invalid endpoint key: %q", s)
	}
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, apierr.Newf(apierr.KindInvalidRequest, "invalid endpoint port: %q", s)
	}
	return uint16(n), nil
}

// Value is an endpoint's routing target: "flight-name:port".
type Value struct {
	FlightName string
	Port       uint16
}

// String renders "flight-name:port".
func (v Value) String() string {
	return v.FlightName + ":" + strconv.Itoa(int(v.Port))
}

// ParseValue parses the "flight-name:port" wire form.
func ParseValue(s string) (Value, error) {
	name, portStr, ok := strings.Cut(s, ":")
	if !ok {
		return Value{}, apierr.Newf(apierr.KindInvalidRequest, "invalid endpoint value: %q", s)
	}
	port, err := parsePort(portStr)
	if err != nil {
		return Value{}, err
	}
	return Value{FlightName: name, Port: port}, nil
}

// MarshalJSON renders a Key through String, matching the wire form.
func (k Key) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON parses the wire string form through Parse.
func (k *Key) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalJSON renders a Value through String.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON parses the "flight-name:port" wire string form.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseValue(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
