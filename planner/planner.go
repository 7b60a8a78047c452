/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package planner owns the local-to-remote reconciliation semantics: the
// five operations fetch-remote, plan, launch, land and delete. It is the
// hardest subsystem in the core — everything else here is plumbing this
// package drives.
package planner

import (
	"github.com/google/uuid"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/client/compute"
	"github.com/seaplane-io/seaplane-go/oid"
	"github.com/seaplane-io/seaplane-go/plan"
	"github.com/seaplane-io/seaplane-go/store"
)

// Planner drives reconciliation between a LocalStore and a ComputeClient.
// Operations within one call are strictly sequential; the planner spawns
// no goroutines and shares no LocalStore across concurrent callers.
type Planner struct {
	store   *store.LocalStore
	compute *compute.Client
}

// New builds a Planner over an already-loaded LocalStore and an
// already-authenticated Compute client.
func New(s *store.LocalStore, c *compute.Client) *Planner {
	return &Planner{store: s, compute: c}
}

// FetchRemoteReport summarizes one fetch-remote invocation.
type FetchRemoteReport struct {
	FormationsUpdated int
	ConfigurationsSeen int
	FlightsSeen        int
}

// FetchRemote imports every remote formation named (or every formation
// the caller can see, if all is true) into the LocalStore, persisting at
// the end.
func (p *Planner) FetchRemote(name string, all bool) (FetchRemoteReport, error) {
	var report FetchRemoteReport
	var names []string
	if all {
		ns, err := p.compute.ListNames()
		if err != nil {
			return report, err
		}
		names = ns
	} else {
		names = []string{name}
	}

	for _, formationName := range names {
		target := compute.NameTarget(formationName)

		confIDs, err := p.compute.ListConfigurationIDs(target)
		if err != nil {
			return report, err
		}
		activeConfs, err := p.compute.GetActiveConfigurations(target)
		if err != nil {
			return report, err
		}
		active := make(map[uuid.UUID]struct{}, len(activeConfs))
		for _, ac := range activeConfs {
			active[ac.ConfigurationID] = struct{}{}
		}

		var localIDs, inAirIDs []oid.Oid
		for _, remoteID := range confIDs {
			wireCfg, err := p.compute.GetConfiguration(target, remoteID)
			if err != nil {
				return report, err
			}
			for _, f := range wireCfg.Flights {
				fm, err := flightFromWire(f)
				if err != nil {
					return report, err
				}
				if _, _, err := p.store.UpdateOrCreateFlight(fm); err != nil {
					return report, err
				}
				report.FlightsSeen++
			}
			model, err := configFromWire(wireCfg)
			if err != nil {
				return report, err
			}
			_, isActive := active[remoteID]
			cfgID, err := p.store.UpdateOrCreateConfiguration(formationName, model, isActive, remoteID)
			if err != nil {
				return report, err
			}
			report.ConfigurationsSeen++
			localIDs = append(localIDs, cfgID)
			if isActive {
				inAirIDs = append(inAirIDs, cfgID)
			}
		}

		formation, found := p.store.FormationByName(formationName)
		if !found {
			fp, err := plan.NewFormationPlan(formationName, nil)
			if err != nil {
				return report, err
			}
			formation = fp
		}
		formation.Reconcile(localIDs, inAirIDs)
		p.store.UpdateOrCreateFormation(formation)
		report.FormationsUpdated++
	}

	return report, p.store.Persist()
}

// PlanArgs are the CLI-resolved inputs to the plan operation: a
// formation name and the single configuration's model, plus policy
// flags. Flight/configuration resolution from names, @path/@- reads and
// the stateless nested-flight-plan command all happen in the Ctx layer
// (seaplanectx), which hands this package a fully-resolved model.
type PlanArgs struct {
	Name        string
	Config      plan.FormationConfigurationModel
	Force       bool
	Launch      bool
	Grounded    bool
}

// PlanReport summarizes one plan invocation.
type PlanReport struct {
	Formation plan.FormationPlan
	Launched  bool
}

// Plan builds a FormationPlan and exactly one FormationConfiguration from
// already-resolved inputs. A pre-existing formation of the same name is
// refused with DuplicateName unless Force, in which case existing
// formations of that name are removed first. If Launch or Grounded is
// set, the planner chains into Launch.
func (p *Planner) Plan(args PlanArgs) (PlanReport, error) {
	existing := p.store.IndicesOfMatches(args.Name)
	if len(existing) > 0 {
		if !args.Force {
			return PlanReport{}, apierr.New(apierr.KindDuplicateName)
		}
		p.store.RemoveFormationIndices(existing)
	}

	cfg, err := plan.NewFormationConfiguration(args.Config)
	if err != nil {
		return PlanReport{}, err
	}
	p.store.AddConfiguration(cfg)

	formation, err := plan.NewFormationPlan(args.Name, []oid.Oid{cfg.ID})
	if err != nil {
		return PlanReport{}, err
	}
	p.store.AddFormation(formation)

	if err := p.store.Persist(); err != nil {
		return PlanReport{}, err
	}

	report := PlanReport{Formation: formation}
	if args.Launch || args.Grounded {
		if _, err := p.Launch(args.Name, args.Grounded); err != nil {
			return report, err
		}
		report.Launched = true
		formation, _ = p.store.FormationByName(args.Name)
		report.Formation = formation
	}
	return report, nil
}

// LaunchResult reports what happened to one formation during Launch.
type LaunchResult struct {
	Name       string
	CreatedNew bool
	URL        string
}

// Launch resolves every formation matching name (exact match; the caller
// decides whether to expand to prefix matches before calling, mirroring
// --all) and sends its not-yet-in-air configurations to the remote
// service.
func (p *Planner) Launch(name string, grounded bool) ([]LaunchResult, error) {
	indices := p.store.IndicesOfMatches(name)
	if len(indices) == 0 {
		return nil, apierr.New(apierr.KindNoMatchingItem)
	}

	var results []LaunchResult
	for _, idx := range indices {
		formation := p.store.Formations[idx]
		result, err := p.launchOne(formation, grounded)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	if err := p.store.Persist(); err != nil {
		return results, err
	}
	return results, nil
}

func (p *Planner) launchOne(formation plan.FormationPlan, grounded bool) (LaunchResult, error) {
	var toSend []oid.Oid
	if grounded {
		toSend = formation.LocalOnly()
	} else {
		toSend = append(append([]oid.Oid{}, formation.LocalOnly()...), formation.GroundedIDs()...)
	}

	knownFlights := make(map[string]struct{})
	for _, f := range p.store.Flights {
		knownFlights[f.Model.Name] = struct{}{}
	}
	for _, id := range toSend {
		cfg, ok := p.store.ConfigurationByID(id)
		if !ok {
			continue
		}
		if err := validatePublicEndpointFlights(cfg.Model, knownFlights); err != nil {
			return LaunchResult{}, err
		}
	}

	target := compute.NameTarget(formation.Name)
	createdNew := false

	for _, id := range toSend {
		cfg, ok := p.store.ConfigurationByID(id)
		if !ok {
			continue
		}
		wireCfg := configToWire(cfg.Model)

		_, err := p.compute.AddConfiguration(target, wireCfg, false)
		if err == nil {
			formation.MoveToGrounded(id)
			continue
		}
		if !apierr.Is(err, apierr.KindNotFound) {
			return LaunchResult{}, err
		}

		ids, createErr := p.compute.Create(target, wireCfg, !grounded)
		if createErr != nil {
			return LaunchResult{}, createErr
		}
		if len(ids) > 0 {
			u := ids[0]
			formation.RemoteID = &u
		}
		formation.MoveToInAir(id)
		createdNew = true
		break
	}

	if !grounded && !createdNew {
		allIDs, err := p.compute.ListConfigurationIDs(target)
		if err != nil {
			return LaunchResult{}, err
		}
		actives := make(compute.ActiveConfigurations, len(allIDs))
		for i, id := range allIDs {
			actives[i] = compute.ActiveConfiguration{ConfigurationID: id, TrafficWeight: 1.0}
		}
		if err := p.compute.SetActiveConfigurations(target, actives, false); err != nil {
			return LaunchResult{}, err
		}
		for _, id := range toSend {
			formation.MoveToInAir(id)
		}
	}

	p.store.UpdateOrCreateFormation(formation)

	meta, err := p.compute.GetMetadata(target)
	if err != nil {
		return LaunchResult{}, err
	}
	return LaunchResult{Name: formation.Name, CreatedNew: createdNew, URL: meta.URL}, nil
}

// Land stops every formation matching name, clearing its active
// configuration set remotely and moving every in_air id to grounded
// locally.
func (p *Planner) Land(name string) error {
	indices := p.store.IndicesOfMatches(name)
	if len(indices) == 0 {
		return apierr.New(apierr.KindNoMatchingItem)
	}
	for _, idx := range indices {
		formation := p.store.Formations[idx]
		if err := p.compute.Stop(compute.NameTarget(formation.Name)); err != nil {
			return err
		}
		formation.LandAll()
		p.store.UpdateOrCreateFormation(formation)
	}
	return p.store.Persist()
}

// DeleteArgs are the policy flags governing one delete invocation.
type DeleteArgs struct {
	Name      string
	Local     bool
	Remote    bool
	Recursive bool
	Force     bool
}

// Delete removes matching formations locally, remotely, or both. A
// remote NotFound is treated as already-deleted and is not an error;
// Recursive additionally removes flights left referenced by no other
// formation.
func (p *Planner) Delete(args DeleteArgs) error {
	if !args.Local && !args.Remote {
		return apierr.New(apierr.KindInvalidRequest)
	}

	indices := p.store.IndicesOfMatches(args.Name)
	if len(indices) == 0 {
		return apierr.New(apierr.KindNoMatchingItem)
	}

	var targetIDs []oid.Oid
	for _, idx := range indices {
		targetIDs = append(targetIDs, p.store.Formations[idx].ID)
	}

	if args.Remote {
		for _, idx := range indices {
			formation := p.store.Formations[idx]
			_, err := p.compute.Delete(compute.NameTarget(formation.Name), args.Force)
			if err != nil && !apierr.Is(err, apierr.KindNotFound) {
				return err
			}
		}
	}

	if args.Local {
		var flightNames []string
		if args.Recursive {
			for _, idx := range indices {
				for _, id := range p.store.Formations[idx].LocalIDs() {
					cfg, ok := p.store.ConfigurationByID(id)
					if !ok {
						continue
					}
					for _, f := range cfg.Model.Flights {
						flightNames = append(flightNames, f.Name)
					}
				}
			}
		}
		p.store.RemoveFormationIndices(indices)

		if args.Recursive {
			var toRemove []int
			for _, flightName := range flightNames {
				if !p.store.FlightReferencedOnlyBy(flightName, targetIDs) {
					continue
				}
				for i, f := range p.store.Flights {
					if f.Model.Name == flightName {
						toRemove = append(toRemove, i)
					}
				}
			}
			p.store.RemoveFlightIndices(toRemove)
		}
	}

	return p.store.Persist()
}
