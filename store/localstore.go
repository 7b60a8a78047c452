/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package store implements LocalStore, the in-memory triple-list of
// Flights, FormationConfigurations and FormationPlans that backs every
// planner operation, plus its atomic on-disk persistence.
package store

import (
	"os"
	"sort"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio"
	"github.com/google/uuid"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/oid"
	"github.com/seaplane-io/seaplane-go/plan"
)

// document is the on-disk JSON shape: the three lists, nothing else.
type document struct {
	Flights        []plan.FlightPlan             `json:"flights"`
	Configurations []plan.FormationConfiguration  `json:"configurations"`
	Formations     []plan.FormationPlan           `json:"formations"`
}

// LocalStore is the in-memory triple-list of locally-known objects. Scans
// are O(n); the expected repository scale is tens of formations and
// hundreds of flights, so no index is maintained.
type LocalStore struct {
	mu sync.Mutex

	Flights        []plan.FlightPlan
	Configurations []plan.FormationConfiguration
	Formations     []plan.FormationPlan

	loadedFrom  string
	needsPersist bool
}

// New builds an empty LocalStore that will persist to path.
func New(path string) *LocalStore {
	return &LocalStore{loadedFrom: path}
}

// Load reads an existing on-disk document, or returns an empty LocalStore
// if the file does not yet exist.
func Load(path string) (*LocalStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(path), nil
		}
		return nil, apierr.Wrap(apierr.KindIO, err)
	}
	var doc document
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return &LocalStore{
		Flights:        doc.Flights,
		Configurations: doc.Configurations,
		Formations:     doc.Formations,
		loadedFrom:     path,
	}, nil
}

// NeedsPersist reports whether changes are pending a Persist call.
func (s *LocalStore) NeedsPersist() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsPersist
}

func (s *LocalStore) markDirty() { s.needsPersist = true }

// FindFlightByNameOrPartialID returns the index of the flight matching
// needle exactly by name, or by a needle that is a unique prefix of its
// Oid string. Returns apierr.KindNoMatchingItem or
// apierr.KindAmbiguousItem.
func (s *LocalStore) FindFlightByNameOrPartialID(needle string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.Flights {
		if f.Model.Name == needle {
			return i, nil
		}
	}
	matches := s.indicesOfLeftMatchesLocked(needle)
	switch len(matches) {
	case 0:
		return -1, apierr.New(apierr.KindNoMatchingItem)
	case 1:
		return matches[0], nil
	default:
		return -1, apierr.New(apierr.KindAmbiguousItem)
	}
}

func (s *LocalStore) indicesOfLeftMatchesLocked(needle string) []int {
	var out []int
	for i, f := range s.Flights {
		if strings.HasPrefix(f.ID.String(), needle) {
			out = append(out, i)
		}
	}
	return out
}

// IndicesOfMatches returns indices of FormationPlans whose name exactly
// equals needle.
func (s *LocalStore) IndicesOfMatches(needle string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for i, f := range s.Formations {
		if f.Name == needle {
			out = append(out, i)
		}
	}
	return out
}

// IndicesOfLeftMatches returns indices of FormationPlans whose name has
// needle as a prefix. Used by --all to select every formation sharing a
// name stem.
func (s *LocalStore) IndicesOfLeftMatches(needle string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for i, f := range s.Formations {
		if strings.HasPrefix(f.Name, needle) {
			out = append(out, i)
		}
	}
	return out
}

// RemoveFormationIndices removes the FormationPlans at the given indices,
// which need not be sorted; removal proceeds in descending order so
// earlier indices stay valid.
func (s *LocalStore) RemoveFormationIndices(indices []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		s.Formations = append(s.Formations[:i], s.Formations[i+1:]...)
	}
	s.markDirty()
}

// RemoveFlightIndices removes the FlightPlans at the given indices, which
// need not be sorted; removal proceeds in descending order so earlier
// indices stay valid.
func (s *LocalStore) RemoveFlightIndices(indices []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		s.Flights = append(s.Flights[:i], s.Flights[i+1:]...)
	}
	s.markDirty()
}

// UpdateOrCreateFlight upserts a flight keyed by (name, image), returning
// the name and id of the resulting FlightPlan.
func (s *LocalStore) UpdateOrCreateFlight(model plan.FlightModel) (string, oid.Oid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.Flights {
		if f.Model.Name == model.Name && f.Model.Image.Equal(model.Image) {
			s.Flights[i].Model = model
			s.markDirty()
			return f.Model.Name, f.ID, nil
		}
	}
	fp, err := plan.NewFlightPlan(model)
	if err != nil {
		return "", oid.Oid{}, err
	}
	s.Flights = append(s.Flights, fp)
	s.markDirty()
	return fp.Model.Name, fp.ID, nil
}

// UpdateOrCreateConfiguration upserts a configuration observed on the
// fetch-remote path, matching an existing one by remote UUID and recording
// that UUID on a new one. formationName and isActive are not used here:
// this method records neither formation membership nor in_air state.
func (s *LocalStore) UpdateOrCreateConfiguration(formationName string, model plan.FormationConfigurationModel, isActive bool, remoteUUID uuid.UUID) (oid.Oid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.Configurations {
		if c.RemoteUUID != nil && *c.RemoteUUID == remoteUUID {
			s.Configurations[i].Model = model
			s.markDirty()
			return c.ID, nil
		}
	}
	cfg, err := plan.NewFormationConfiguration(model)
	if err != nil {
		return oid.Oid{}, err
	}
	u := remoteUUID
	cfg.RemoteUUID = &u
	s.Configurations = append(s.Configurations, cfg)
	s.markDirty()
	return cfg.ID, nil
}

// UpdateOrCreateFormation upserts a FormationPlan by name, replacing an
// existing one's set state entirely (the fetch-remote path is the
// authority on which configurations are local/in_air/grounded).
func (s *LocalStore) UpdateOrCreateFormation(formation plan.FormationPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.Formations {
		if f.Name == formation.Name {
			s.Formations[i] = formation
			s.markDirty()
			return
		}
	}
	s.Formations = append(s.Formations, formation)
	s.markDirty()
}

// FormationByName returns the FormationPlan with the given name.
func (s *LocalStore) FormationByName(name string) (plan.FormationPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Formations {
		if f.Name == name {
			return f, true
		}
	}
	return plan.FormationPlan{}, false
}

// AddFormation appends a brand-new FormationPlan without checking for an
// existing one of the same name; the planner's plan operation is
// responsible for the duplicate-name policy before calling this.
func (s *LocalStore) AddFormation(formation plan.FormationPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Formations = append(s.Formations, formation)
	s.markDirty()
}

// AddConfiguration appends a brand-new FormationConfiguration.
func (s *LocalStore) AddConfiguration(cfg plan.FormationConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Configurations = append(s.Configurations, cfg)
	s.markDirty()
}

// ConfigurationByID returns the configuration with the given Oid.
func (s *LocalStore) ConfigurationByID(id oid.Oid) (plan.FormationConfiguration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configurationByIDLocked(id)
}

func (s *LocalStore) configurationByIDLocked(id oid.Oid) (plan.FormationConfiguration, bool) {
	for _, c := range s.Configurations {
		if c.ID.Equal(id) {
			return c, true
		}
	}
	return plan.FormationConfiguration{}, false
}

// FlightReferencedOnlyBy reports whether every FormationConfiguration
// referencing flightName belongs to one of the given formation ids (used
// by the planner's recursive delete).
func (s *LocalStore) FlightReferencedOnlyBy(flightName string, formationIDs []oid.Oid) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	owning := make(map[string]struct{}, len(formationIDs))
	for _, id := range formationIDs {
		owning[id.String()] = struct{}{}
	}
	for _, f := range s.Formations {
		if _, isTarget := owning[f.ID.String()]; isTarget {
			continue
		}
		for _, cfgID := range f.LocalIDs() {
			cfg, ok := s.configurationByIDLocked(cfgID)
			if !ok {
				continue
			}
			for _, flight := range cfg.Model.Flights {
				if flight.Name == flightName {
					return false
				}
			}
		}
	}
	return true
}

// Persist serializes the three lists to a single JSON document, written
// atomically (temp file + rename) via renameio. A no-op if nothing is
// dirty.
func (s *LocalStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.needsPersist {
		return nil
	}
	doc := document{Flights: s.Flights, Configurations: s.Configurations, Formations: s.Formations}
	data, err := gojson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apierr.Wrap(apierr.KindSerde, err)
	}
	t, err := renameio.TempFile("", s.loadedFrom)
	if err != nil {
		return apierr.Wrap(apierr.KindIO, err)
	}
	defer t.Cleanup()
	if _, err := t.Write(data); err != nil {
		return apierr.Wrap(apierr.KindIO, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return apierr.Wrap(apierr.KindIO, err)
	}
	s.needsPersist = false
	return nil
}
