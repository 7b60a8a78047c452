/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package planner

import (
	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/client/compute"
	"github.com/seaplane-io/seaplane-go/endpoint"
	"github.com/seaplane-io/seaplane-go/imageref"
	"github.com/seaplane-io/seaplane-go/plan"
)

func flightToWire(f plan.FlightModel) compute.Flight {
	return compute.Flight{
		Name:          f.Name,
		Image:         f.Image.String(),
		Minimum:       f.Minimum,
		Maximum:       f.Maximum,
		Architectures: f.Architectures,
		APIPermission: f.APIPermission,
	}
}

func flightFromWire(f compute.Flight) (plan.FlightModel, error) {
	ref, err := imageref.Parse(f.Image)
	if err != nil {
		return plan.FlightModel{}, err
	}
	return plan.FlightModel{
		Name:          f.Name,
		Image:         ref,
		Minimum:       f.Minimum,
		Maximum:       f.Maximum,
		Architectures: f.Architectures,
		APIPermission: f.APIPermission,
	}, nil
}

func endpointsToWire(m map[string]endpoint.Value) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}

func endpointsFromWire(m map[string]string) (map[string]endpoint.Value, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]endpoint.Value, len(m))
	for k, v := range m {
		val, err := endpoint.ParseValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

func configToWire(m plan.FormationConfigurationModel) compute.FormationConfiguration {
	flights := make([]compute.Flight, len(m.Flights))
	for i, f := range m.Flights {
		flights[i] = flightToWire(f)
	}
	return compute.FormationConfiguration{
		Flights:            flights,
		PublicEndpoints:    endpointsToWire(m.PublicEndpoints),
		FormationEndpoints: endpointsToWire(m.FormationEndpoints),
		FlightEndpoints:    endpointsToWire(m.FlightEndpoints),
		ProvidersAllowed:   m.ProvidersAllowed,
		ProvidersDenied:    m.ProvidersDenied,
		RegionsAllowed:     m.RegionsAllowed,
		RegionsDenied:      m.RegionsDenied,
	}
}

func configFromWire(w compute.FormationConfiguration) (plan.FormationConfigurationModel, error) {
	flights := make([]plan.FlightModel, len(w.Flights))
	for i, f := range w.Flights {
		fm, err := flightFromWire(f)
		if err != nil {
			return plan.FormationConfigurationModel{}, err
		}
		flights[i] = fm
	}
	pub, err := endpointsFromWire(w.PublicEndpoints)
	if err != nil {
		return plan.FormationConfigurationModel{}, err
	}
	frm, err := endpointsFromWire(w.FormationEndpoints)
	if err != nil {
		return plan.FormationConfigurationModel{}, err
	}
	flt, err := endpointsFromWire(w.FlightEndpoints)
	if err != nil {
		return plan.FormationConfigurationModel{}, err
	}
	return plan.FormationConfigurationModel{
		Flights:            flights,
		PublicEndpoints:    pub,
		FormationEndpoints: frm,
		FlightEndpoints:    flt,
		ProvidersAllowed:   w.ProvidersAllowed,
		ProvidersDenied:    w.ProvidersDenied,
		RegionsAllowed:     w.RegionsAllowed,
		RegionsDenied:      w.RegionsDenied,
	}, nil
}

func validatePublicEndpointFlights(m plan.FormationConfigurationModel, knownFlights map[string]struct{}) error {
	for _, val := range m.PublicEndpoints {
		if _, ok := knownFlights[val.FlightName]; !ok {
			return apierr.New(apierr.KindEndpointInvalidFlight)
		}
	}
	return nil
}
