/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package plan holds the locally-persisted domain model: Flights,
// FormationConfigurations and FormationPlans, plus the name and set
// invariants they must satisfy. It has no knowledge of transport or
// storage; those live in client/compute and store respectively.
package plan

import (
	"regexp"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/endpoint"
	"github.com/seaplane-io/seaplane-go/imageref"
	"github.com/seaplane-io/seaplane-go/oid"
)

var flightNameRe = regexp.MustCompile(`^[0-9a-z-]{1,63}$`)
var formationNameRe = regexp.MustCompile(`^[0-9a-z-]{1,30}$`)

// ValidateFlightName enforces the 1-63 char, [0-9a-z-], no "--", no
// trailing "-" rule shared by every Flight.
func ValidateFlightName(name string) error {
	if !flightNameRe.MatchString(name) {
		return apierr.New(apierr.KindInvalidFlightName)
	}
	if strings.Contains(name, "--") || strings.HasSuffix(name, "-") {
		return apierr.New(apierr.KindInvalidFlightName)
	}
	return nil
}

// ValidateFormationName enforces the 1-30 char, [0-9a-z-], at most 3
// hyphens, no "--", no trailing "-" rule for a FormationPlan's name.
func ValidateFormationName(name string) error {
	if !formationNameRe.MatchString(name) {
		return apierr.New(apierr.KindInvalidFormationName)
	}
	if strings.Contains(name, "--") || strings.HasSuffix(name, "-") {
		return apierr.New(apierr.KindInvalidFormationName)
	}
	if strings.Count(name, "-") > 3 {
		return apierr.New(apierr.KindInvalidFormationName)
	}
	return nil
}

// FlightModel is a Flight's content, independent of its local identity.
type FlightModel struct {
	Name          string             `json:"name"`
	Image         imageref.Reference `json:"image"`
	Minimum       uint64             `json:"minimum"`
	Maximum       *uint64            `json:"maximum,omitempty"`
	Architectures []string           `json:"architectures,omitempty"`
	APIPermission bool               `json:"api_permission,omitempty"`
}

// FlightPlan is one locally-persisted Flight.
type FlightPlan struct {
	ID    oid.Oid     `json:"id"`
	Model FlightModel `json:"model"`
}

// NewFlightPlan mints a FlightPlan after validating its name.
func NewFlightPlan(model FlightModel) (FlightPlan, error) {
	if err := ValidateFlightName(model.Name); err != nil {
		return FlightPlan{}, err
	}
	if model.Image.Domain == "" && model.Image.Path == "" {
		return FlightPlan{}, apierr.New(apierr.KindMissingFlightImage)
	}
	id, err := oid.New("flt")
	if err != nil {
		return FlightPlan{}, err
	}
	return FlightPlan{ID: id, Model: model}, nil
}

func stringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func disjoint(a, b []string) bool {
	set := stringSet(a)
	for _, s := range b {
		if _, ok := set[s]; ok {
			return false
		}
	}
	return true
}

// FormationConfigurationModel is a FormationConfiguration's content.
type FormationConfigurationModel struct {
	Flights            []FlightModel          `json:"flights"`
	PublicEndpoints    map[string]endpoint.Value `json:"public_endpoints,omitempty"`
	FormationEndpoints map[string]endpoint.Value `json:"formation_endpoints,omitempty"`
	FlightEndpoints    map[string]endpoint.Value `json:"flight_endpoints,omitempty"`
	ProvidersAllowed   []string               `json:"providers_allowed,omitempty"`
	ProvidersDenied    []string               `json:"providers_denied,omitempty"`
	RegionsAllowed     []string               `json:"regions_allowed,omitempty"`
	RegionsDenied      []string               `json:"regions_denied,omitempty"`
}

// Validate checks the set and non-emptiness invariants a
// FormationConfigurationModel must satisfy independent of any flight
// resolution.
func (m FormationConfigurationModel) Validate() error {
	if len(m.Flights) == 0 {
		return apierr.New(apierr.KindEmptyFlights)
	}
	if !disjoint(m.ProvidersAllowed, m.ProvidersDenied) {
		return apierr.New(apierr.KindConflictingRequirements)
	}
	if !disjoint(m.RegionsAllowed, m.RegionsDenied) {
		return apierr.New(apierr.KindConflictingRequirements)
	}
	names := make(map[string]struct{}, len(m.Flights))
	for _, f := range m.Flights {
		if _, dup := names[f.Name]; dup {
			return apierr.New(apierr.KindDuplicateName)
		}
		names[f.Name] = struct{}{}
	}
	for key, val := range m.PublicEndpoints {
		if _, err := endpoint.Parse(key); err != nil {
			return err
		}
		if _, ok := names[val.FlightName]; !ok {
			return apierr.New(apierr.KindEndpointInvalidFlight)
		}
	}
	for key, val := range m.FormationEndpoints {
		if _, err := endpoint.Parse(key); err != nil {
			return err
		}
		if _, ok := names[val.FlightName]; !ok {
			return apierr.New(apierr.KindEndpointInvalidFlight)
		}
	}
	for key, val := range m.FlightEndpoints {
		if _, err := endpoint.Parse(key); err != nil {
			return err
		}
		if _, ok := names[val.FlightName]; !ok {
			return apierr.New(apierr.KindEndpointInvalidFlight)
		}
	}
	return nil
}

// FormationConfiguration is one locally-persisted configuration, with an
// optional link to the remote UUID it was last synced against.
type FormationConfiguration struct {
	ID         oid.Oid                     `json:"id"`
	RemoteUUID *uuid.UUID                  `json:"remote_uuid,omitempty"`
	Model      FormationConfigurationModel `json:"model"`
}

// NewFormationConfiguration mints a FormationConfiguration after
// validating its model.
func NewFormationConfiguration(model FormationConfigurationModel) (FormationConfiguration, error) {
	if err := model.Validate(); err != nil {
		return FormationConfiguration{}, err
	}
	id, err := oid.New("cfg")
	if err != nil {
		return FormationConfiguration{}, err
	}
	return FormationConfiguration{ID: id, Model: model}, nil
}

// idSet is a set of configuration Oids, keyed by their string form.
type idSet map[string]oid.Oid

func newIDSet(ids ...oid.Oid) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id.String()] = id
	}
	return s
}

func (s idSet) has(id oid.Oid) bool { _, ok := s[id.String()]; return ok }
func (s idSet) add(id oid.Oid)      { s[id.String()] = id }
func (s idSet) remove(id oid.Oid)   { delete(s, id.String()) }
func (s idSet) slice() []oid.Oid {
	out := make([]oid.Oid, 0, len(s))
	for _, id := range s {
		out = append(out, id)
	}
	return out
}

// FormationPlan is one locally-persisted Formation: the set of
// configurations it knows about (local), the subset currently serving
// traffic (in_air), and the subset added remotely but not yet active
// (grounded).
type FormationPlan struct {
	ID       oid.Oid
	Name     string
	Local    idSet
	InAir    idSet
	Grounded idSet
	RemoteID *uuid.UUID
}

// formationPlanWire is the on-disk JSON shape for FormationPlan: sets are
// serialized as slices of Oid text, in map iteration order (not sorted).
type formationPlanWire struct {
	ID       oid.Oid   `json:"id"`
	Name     string    `json:"name"`
	Local    []oid.Oid `json:"local"`
	InAir    []oid.Oid `json:"in_air"`
	Grounded []oid.Oid `json:"grounded"`
	RemoteID *uuid.UUID `json:"remote_id,omitempty"`
}

// NewFormationPlan mints a FormationPlan after validating its name and
// the local/in_air/grounded invariants.
func NewFormationPlan(name string, local []oid.Oid) (FormationPlan, error) {
	if err := ValidateFormationName(name); err != nil {
		return FormationPlan{}, err
	}
	id, err := oid.New("frm")
	if err != nil {
		return FormationPlan{}, err
	}
	return FormationPlan{
		ID:       id,
		Name:     name,
		Local:    newIDSet(local...),
		InAir:    idSet{},
		Grounded: idSet{},
	}, nil
}

// Validate checks in_air ∩ grounded = ∅ and in_air ∪ grounded ⊆ local.
func (f FormationPlan) Validate() error {
	for k := range f.InAir {
		if _, ok := f.Grounded[k]; ok {
			return apierr.New(apierr.KindConflictingRequirements)
		}
		if _, ok := f.Local[k]; !ok {
			return apierr.New(apierr.KindConflictingRequirements)
		}
	}
	for k := range f.Grounded {
		if _, ok := f.Local[k]; !ok {
			return apierr.New(apierr.KindConflictingRequirements)
		}
	}
	return nil
}

// LocalIDs returns every configuration id known to this formation,
// regardless of in_air/grounded state.
func (f FormationPlan) LocalIDs() []oid.Oid { return f.Local.slice() }

// GroundedIDs returns every configuration id currently grounded (added
// remotely but not serving traffic).
func (f FormationPlan) GroundedIDs() []oid.Oid { return f.Grounded.slice() }

// LocalOnly returns configuration ids present in Local but not in InAir
// or Grounded.
func (f FormationPlan) LocalOnly() []oid.Oid {
	var out []oid.Oid
	for k, id := range f.Local {
		_, air := f.InAir[k]
		_, grd := f.Grounded[k]
		if !air && !grd {
			out = append(out, id)
		}
	}
	return out
}

// AddLocal adds a configuration id to Local without touching its
// in_air/grounded membership.
func (f *FormationPlan) AddLocal(id oid.Oid) { f.Local.add(id) }

// HasInAir reports whether id is currently in_air.
func (f FormationPlan) HasInAir(id oid.Oid) bool { return f.InAir.has(id) }

// HasGrounded reports whether id is currently grounded.
func (f FormationPlan) HasGrounded(id oid.Oid) bool { return f.Grounded.has(id) }

// HasLocal reports whether id is known to this formation at all.
func (f FormationPlan) HasLocal(id oid.Oid) bool { return f.Local.has(id) }

// MoveToInAir marks a configuration id in_air: it is removed from Grounded
// and added to InAir, and stays in (or is added to) Local.
func (f *FormationPlan) MoveToInAir(id oid.Oid) {
	f.Grounded.remove(id)
	f.Local.add(id)
	f.InAir.add(id)
}

// MoveToGrounded marks a configuration id grounded: it is removed from
// InAir and added to Grounded, and stays in (or is added to) Local.
func (f *FormationPlan) MoveToGrounded(id oid.Oid) {
	f.Local.add(id)
	f.InAir.remove(id)
	f.Grounded.add(id)
}

// LandAll moves every InAir id into Grounded, as performed by the
// planner's land operation.
func (f *FormationPlan) LandAll() {
	for _, id := range f.InAir.slice() {
		f.MoveToGrounded(id)
	}
}

// Reconcile replaces this formation's local/in_air/grounded sets
// wholesale, as performed by fetch-remote: the remote service is treated
// as authoritative, grounded is whatever of local isn't in inAir.
func (f *FormationPlan) Reconcile(local, inAir []oid.Oid) {
	f.Local = newIDSet(local...)
	air := newIDSet(inAir...)
	f.InAir = idSet{}
	f.Grounded = idSet{}
	for _, id := range local {
		if air.has(id) {
			f.InAir.add(id)
		} else {
			f.Grounded.add(id)
		}
	}
}

// MarshalJSON renders FormationPlan's sets as plain Oid slices.
func (f FormationPlan) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(formationPlanWire{
		ID:       f.ID,
		Name:     f.Name,
		Local:    f.Local.slice(),
		InAir:    f.InAir.slice(),
		Grounded: f.Grounded.slice(),
		RemoteID: f.RemoteID,
	})
}

// UnmarshalJSON restores FormationPlan's sets from the on-disk Oid
// slices.
func (f *FormationPlan) UnmarshalJSON(data []byte) error {
	var w formationPlanWire
	if err := gojson.Unmarshal(data, &w); err != nil {
		return err
	}
	f.ID = w.ID
	f.Name = w.Name
	f.Local = newIDSet(w.Local...)
	f.InAir = newIDSet(w.InAir...)
	f.Grounded = newIDSet(w.Grounded...)
	f.RemoteID = w.RemoteID
	return nil
}
