/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package plan

import (
	"testing"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/imageref"
)

func TestValidateFlightNameRejectsDoubleHyphenAndTrailingHyphen(t *testing.T) {
	cases := []string{"web--app", "web-", "web-app-", "UPPER", ""}
	for _, name := range cases {
		if err := ValidateFlightName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
	if err := ValidateFlightName("web-app"); err != nil {
		t.Errorf("expected web-app to be valid, got %v", err)
	}
}

func TestValidateFormationNameRejectsTooManyHyphens(t *testing.T) {
	if err := ValidateFormationName("a-b-c-d-e"); err == nil {
		t.Fatal("expected more than 3 hyphens to be rejected")
	}
	if err := ValidateFormationName("a-b-c"); err != nil {
		t.Fatalf("expected a-b-c to be valid, got %v", err)
	}
}

func TestFormationConfigurationModelRejectsEmptyFlights(t *testing.T) {
	m := FormationConfigurationModel{}
	err := m.Validate()
	if !apierr.Is(err, apierr.KindEmptyFlights) {
		t.Fatalf("expected EmptyFlights, got %v", err)
	}
}

func TestFormationConfigurationModelRejectsOverlappingProviders(t *testing.T) {
	ref, err := imageref.Parse("domain.io/nginx:latest")
	if err != nil {
		t.Fatal(err)
	}
	m := FormationConfigurationModel{
		Flights:          []FlightModel{{Name: "web", Image: ref, Minimum: 1}},
		ProvidersAllowed: []string{"aws"},
		ProvidersDenied:  []string{"aws"},
	}
	if !apierr.Is(m.Validate(), apierr.KindConflictingRequirements) {
		t.Fatal("expected ConflictingRequirements for overlapping providers")
	}
}

func TestFormationConfigurationModelRejectsDuplicateFlightNames(t *testing.T) {
	ref, _ := imageref.Parse("domain.io/nginx:latest")
	m := FormationConfigurationModel{
		Flights: []FlightModel{
			{Name: "web", Image: ref, Minimum: 1},
			{Name: "web", Image: ref, Minimum: 2},
		},
	}
	if !apierr.Is(m.Validate(), apierr.KindDuplicateName) {
		t.Fatal("expected DuplicateName for repeated flight names")
	}
}

func TestFormationPlanInvariantInAirGroundedDisjointAndSubsetOfLocal(t *testing.T) {
	fp, err := NewFormationPlan("my-formation", nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := NewFormationConfiguration(FormationConfigurationModel{
		Flights: []FlightModel{{Name: "web", Minimum: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	fp.Local.add(cfg.ID)
	fp.MoveToGrounded(cfg.ID)
	if err := fp.Validate(); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}
	fp.MoveToInAir(cfg.ID)
	if len(fp.Grounded) != 0 {
		t.Fatal("expected configuration to leave Grounded once moved in-air")
	}
	if err := fp.Validate(); err != nil {
		t.Fatalf("expected valid plan after move, got %v", err)
	}
}

func TestFormationPlanLandAllMovesInAirToGrounded(t *testing.T) {
	fp, _ := NewFormationPlan("f", nil)
	cfg, _ := NewFormationConfiguration(FormationConfigurationModel{Flights: []FlightModel{{Name: "a", Minimum: 1}}})
	fp.Local.add(cfg.ID)
	fp.MoveToInAir(cfg.ID)
	fp.LandAll()
	if len(fp.InAir) != 0 || !fp.Grounded.has(cfg.ID) {
		t.Fatalf("expected LandAll to empty InAir into Grounded, got inAir=%v grounded=%v", fp.InAir, fp.Grounded)
	}
}

func TestFormationPlanJSONRoundTrip(t *testing.T) {
	fp, _ := NewFormationPlan("roundtrip", nil)
	cfg, _ := NewFormationConfiguration(FormationConfigurationModel{Flights: []FlightModel{{Name: "a", Minimum: 1}}})
	fp.Local.add(cfg.ID)
	fp.MoveToInAir(cfg.ID)

	data, err := fp.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var out FormationPlan
	if err := out.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if out.Name != fp.Name || !out.InAir.has(cfg.ID) {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
