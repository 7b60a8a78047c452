/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/imageref"
	"github.com/seaplane-io/seaplane-go/plan"
)

func mustImage(t *testing.T, s string) imageref.Reference {
	t.Helper()
	ref, err := imageref.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func TestUpdateOrCreateFlightUpsertsByNameAndImage(t *testing.T) {
	s := New("")
	model := plan.FlightModel{Name: "web", Image: mustImage(t, "domain.io/nginx:latest"), Minimum: 1}
	name1, id1, err := s.UpdateOrCreateFlight(model)
	if err != nil {
		t.Fatal(err)
	}
	model.Minimum = 2
	name2, id2, err := s.UpdateOrCreateFlight(model)
	if err != nil {
		t.Fatal(err)
	}
	if name1 != name2 || !id1.Equal(id2) {
		t.Fatalf("expected upsert to reuse the same flight, got %v/%v vs %v/%v", name1, id1, name2, id2)
	}
	if len(s.Flights) != 1 || s.Flights[0].Model.Minimum != 2 {
		t.Fatalf("expected single updated flight, got %+v", s.Flights)
	}
}

func TestFindFlightByNameOrPartialID(t *testing.T) {
	s := New("")
	_, _, err := s.UpdateOrCreateFlight(plan.FlightModel{Name: "web", Image: mustImage(t, "domain.io/nginx:latest"), Minimum: 1})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := s.FindFlightByNameOrPartialID("web")
	if err != nil || idx != 0 {
		t.Fatalf("expected exact name match, got idx=%d err=%v", idx, err)
	}
	prefix := s.Flights[0].ID.String()[:6]
	idx, err = s.FindFlightByNameOrPartialID(prefix)
	if err != nil || idx != 0 {
		t.Fatalf("expected prefix match, got idx=%d err=%v", idx, err)
	}
	_, err = s.FindFlightByNameOrPartialID("does-not-exist")
	if !apierr.Is(err, apierr.KindNoMatchingItem) {
		t.Fatalf("expected NoMatchingItem, got %v", err)
	}
}

func TestRemoveFormationIndicesDescendingOrderPreservesStability(t *testing.T) {
	s := New("")
	for _, name := range []string{"a", "b", "c", "d"} {
		fp, err := plan.NewFormationPlan(name, nil)
		if err != nil {
			t.Fatal(err)
		}
		s.AddFormation(fp)
	}
	s.RemoveFormationIndices([]int{0, 2})
	if len(s.Formations) != 2 || s.Formations[0].Name != "b" || s.Formations[1].Name != "d" {
		t.Fatalf("unexpected formations after removal: %+v", s.Formations)
	}
}

func TestPersistWritesAtomicallyAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	s := New(path)
	if _, _, err := s.UpdateOrCreateFlight(plan.FlightModel{Name: "web", Image: mustImage(t, "domain.io/nginx:latest"), Minimum: 1}); err != nil {
		t.Fatal(err)
	}
	if !s.NeedsPersist() {
		t.Fatal("expected dirty flag after mutation")
	}
	if err := s.Persist(); err != nil {
		t.Fatal(err)
	}
	if s.NeedsPersist() {
		t.Fatal("expected dirty flag cleared after persist")
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Flights) != 1 || reloaded.Flights[0].Model.Name != "web" {
		t.Fatalf("unexpected reloaded flights: %+v", reloaded.Flights)
	}
}

func TestPersistIsNoOpWhenClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	s := New(path)
	if err := s.Persist(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file written for a clean store, stat err=%v", err)
	}
}
