/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package seaplanectx defines the boundary contract between the planner
// core and a CLI frontend: the minimal set of accessors the core needs
// from wherever flags, environment and config actually live. Flag
// parsing, help text and shell completion are out of scope here — this
// package only names what the core depends on.
package seaplanectx

// FlightArgs are the flight-scoped inputs a Ctx exposes to the stateless
// nested flight-plan command invoked while resolving inline flights.
type FlightArgs interface {
	Name() string
	Image() string
	Minimum() uint64
	Maximum() (uint64, bool)
	Architectures() []string
	APIPermission() bool
}

// FormationArgs are the formation-scoped inputs a Ctx exposes while
// resolving a plan/launch/land/delete command.
type FormationArgs interface {
	Name() string
	Force() bool
	All() bool
	Fetch() bool
	Stateless() bool
	Exact() bool
	NameOrID() string
}

// Ctx is everything the planner needs from its caller: credentials,
// per-service base URLs, and the sub-contexts carrying CLI-resolved
// arguments. An implementation backed by real flag parsing lives outside
// this module's scope.
type Ctx interface {
	APIKey() string
	IdentityURL() string
	ComputeURL() string
	MetadataURL() string
	LocksURL() string
	RestrictURL() string

	Flight() FlightArgs
	Formation() FormationArgs

	// InternalRun reports whether this invocation was triggered by
	// another command rather than directly by the user, so that
	// terminal summaries meant for interactive use can be suppressed.
	InternalRun() bool
}
