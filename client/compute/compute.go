/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package compute is the thin client for the Compute service: Formation
// and Flight CRUD, status, active-configuration management, and container
// listing. Every method requires the session's target to be a formation
// name.
package compute

import (
	"bytes"
	"net/http"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/seaplane-io/seaplane-go/apierr"
	"github.com/seaplane-io/seaplane-go/apisession"
)

const basePath = "/v1/formations"

// Flight is the wire shape of one container image + scaling parameters
// within a FormationConfiguration.
type Flight struct {
	Name           string   `json:"name"`
	Image          string   `json:"image"`
	Minimum        uint64   `json:"minimum"`
	Maximum        *uint64  `json:"maximum,omitempty"`
	Architectures  []string `json:"architectures,omitempty"`
	APIPermission  bool     `json:"api_permission,omitempty"`
}

// FormationConfiguration is the wire shape of one configuration: a set of
// Flights plus endpoint mappings and provider/region constraints.
type FormationConfiguration struct {
	Flights            []Flight          `json:"flights"`
	PublicEndpoints    map[string]string `json:"public_endpoints,omitempty"`
	FormationEndpoints map[string]string `json:"formation_endpoints,omitempty"`
	FlightEndpoints    map[string]string `json:"flight_endpoints,omitempty"`
	ProvidersAllowed   []string          `json:"providers_allowed,omitempty"`
	ProvidersDenied    []string          `json:"providers_denied,omitempty"`
	RegionsAllowed     []string          `json:"regions_allowed,omitempty"`
	RegionsDenied      []string          `json:"regions_denied,omitempty"`
}

// ActiveConfiguration pairs a configuration UUID with its traffic weight.
type ActiveConfiguration struct {
	ConfigurationID uuid.UUID `json:"configuration_id"`
	TrafficWeight   float64   `json:"traffic_weight"`
}

// ActiveConfigurations is the set sent to SetActiveConfigurations.
type ActiveConfigurations []ActiveConfiguration

// FormationMetadata is the response of GetMetadata.
type FormationMetadata struct {
	URL string  `json:"url"`
	Oid *string `json:"oid,omitempty"`
}

// Container is the status/detail of one running or recently-stopped
// container within a Formation.
type Container struct {
	ID     uuid.UUID `json:"id"`
	Flight string    `json:"flight"`
	Status string    `json:"status"`
}

// Containers is the response of GetContainers.
type Containers []Container

// Target selects the formation the next call addresses.
type Target struct {
	name *string
}

// NameTarget addresses a formation by name. Every Compute endpoint except
// ListNames requires this target.
func NameTarget(name string) Target { return Target{name: &name} }

// Client is the Compute service client.
type Client struct {
	session *apisession.Session
}

// New builds a Compute client over an already-configured Session.
func New(session *apisession.Session) *Client { return &Client{session: session} }

func (c *Client) formationPath(t Target, suffix string) (string, error) {
	if t.name == nil {
		return "", apierr.New(apierr.KindMissingFormationName)
	}
	return basePath + "/" + *t.name + suffix, nil
}

// ListNames returns the names of every Formation the caller can access.
// The only Compute endpoint that does not require a Target.
func (c *Client) ListNames() ([]string, error) {
	url := c.session.URL(basePath, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return nil, err
	}
	var names []string
	if err := gojson.Unmarshal(res.Body, &names); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return names, nil
}

// GetMetadata returns a formation's own metadata (its URL and, on the v2
// shape, its oid).
func (c *Client) GetMetadata(t Target) (FormationMetadata, error) {
	path, err := c.formationPath(t, "")
	if err != nil {
		return FormationMetadata{}, err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return FormationMetadata{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return FormationMetadata{}, err
	}
	var meta FormationMetadata
	if err := gojson.Unmarshal(res.Body, &meta); err != nil {
		return FormationMetadata{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return meta, nil
}

func (c *Client) postFormation(t Target, cfg *FormationConfiguration, active bool, source string) ([]uuid.UUID, error) {
	path, err := c.formationPath(t, "")
	if err != nil {
		return nil, err
	}
	query := "active=" + strconv.FormatBool(active)
	if source != "" {
		query += "&source=" + source
	}
	url := c.session.URL(path, query)

	var body []byte
	if cfg != nil {
		body, err = gojson.Marshal(cfg)
		if err != nil {
			return nil, apierr.Wrap(apierr.KindSerde, err)
		}
	}

	res, err := c.session.Execute(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := gojson.Unmarshal(res.Body, &ids); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return ids, nil
}

// Create creates a brand-new Formation with the given configuration; the
// name must not already exist remotely.
func (c *Client) Create(t Target, cfg FormationConfiguration, active bool) ([]uuid.UUID, error) {
	return c.postFormation(t, &cfg, active, "")
}

// CloneFrom clones an existing Formation's configuration into a new name.
// Mutually exclusive with Create: it sends no body, only a source query
// parameter.
func (c *Client) CloneFrom(t Target, source string, active bool) ([]uuid.UUID, error) {
	return c.postFormation(t, nil, active, source)
}

// Delete deletes a Formation. force=true deletes it even while actively
// running.
func (c *Client) Delete(t Target, force bool) ([]uuid.UUID, error) {
	path, err := c.formationPath(t, "")
	if err != nil {
		return nil, err
	}
	url := c.session.URL(path, "force="+strconv.FormatBool(force))
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodDelete, url, nil)
	})
	if err != nil {
		return nil, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := gojson.Unmarshal(res.Body, &ids); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return ids, nil
}

// GetActiveConfigurations returns the currently active configuration set.
func (c *Client) GetActiveConfigurations(t Target) (ActiveConfigurations, error) {
	path, err := c.formationPath(t, "/activeConfiguration")
	if err != nil {
		return nil, err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return nil, err
	}
	var configs ActiveConfigurations
	if err := gojson.Unmarshal(res.Body, &configs); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return configs, nil
}

// SetActiveConfigurations replaces the active configuration set. An empty
// set is rejected unless force is true, since it brings the Formation
// down.
func (c *Client) SetActiveConfigurations(t Target, configs ActiveConfigurations, force bool) error {
	if !force && len(configs) == 0 {
		return apierr.New(apierr.KindMissingActiveConfiguration)
	}
	path, err := c.formationPath(t, "/activeConfiguration")
	if err != nil {
		return err
	}
	url := c.session.URL(path, "force="+strconv.FormatBool(force))
	body, err := gojson.Marshal(configs)
	if err != nil {
		return apierr.Wrap(apierr.KindSerde, err)
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	return statusErr(res.Status, res.Body)
}

// Stop clears the active configuration set, spinning down every Flight.
func (c *Client) Stop(t Target) error {
	path, err := c.formationPath(t, "/activeConfiguration")
	if err != nil {
		return err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodDelete, url, nil)
	})
	if err != nil {
		return err
	}
	return statusErr(res.Status, res.Body)
}

// ListConfigurationIDs returns every configuration UUID known for a
// Formation.
func (c *Client) ListConfigurationIDs(t Target) ([]uuid.UUID, error) {
	path, err := c.formationPath(t, "/configurations")
	if err != nil {
		return nil, err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := gojson.Unmarshal(res.Body, &ids); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return ids, nil
}

// GetConfiguration fetches a single configuration's body by UUID.
func (c *Client) GetConfiguration(t Target, id uuid.UUID) (FormationConfiguration, error) {
	path, err := c.formationPath(t, "/configurations/"+id.String())
	if err != nil {
		return FormationConfiguration{}, err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return FormationConfiguration{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return FormationConfiguration{}, err
	}
	var cfg FormationConfiguration
	if err := gojson.Unmarshal(res.Body, &cfg); err != nil {
		return FormationConfiguration{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return cfg, nil
}

// RemoveConfiguration removes a configuration from an existing Formation.
func (c *Client) RemoveConfiguration(t Target, id uuid.UUID, force bool) (uuid.UUID, error) {
	path, err := c.formationPath(t, "/configurations/"+id.String())
	if err != nil {
		return uuid.UUID{}, err
	}
	url := c.session.URL(path, "force="+strconv.FormatBool(force))
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodDelete, url, nil)
	})
	if err != nil {
		return uuid.UUID{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return uuid.UUID{}, err
	}
	var removed uuid.UUID
	if err := gojson.Unmarshal(res.Body, &removed); err != nil {
		return uuid.UUID{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return removed, nil
}

// AddConfiguration adds a configuration to an existing Formation. Returns
// apierr.KindNotFound (a signal, not a failure) when the Formation itself
// doesn't exist yet; the planner's launch operation falls through to
// Create on that signal.
func (c *Client) AddConfiguration(t Target, cfg FormationConfiguration, active bool) (uuid.UUID, error) {
	path, err := c.formationPath(t, "/configurations")
	if err != nil {
		return uuid.UUID{}, err
	}
	url := c.session.URL(path, "active="+strconv.FormatBool(active))
	body, err := gojson.Marshal(cfg)
	if err != nil {
		return uuid.UUID{}, apierr.Wrap(apierr.KindSerde, err)
	}
	res, err := c.session.Execute(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return uuid.UUID{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	if err := gojson.Unmarshal(res.Body, &id); err != nil {
		return uuid.UUID{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return id, nil
}

// GetContainers lists every container, running or recently stopped,
// within a Formation.
func (c *Client) GetContainers(t Target) (Containers, error) {
	path, err := c.formationPath(t, "/containers")
	if err != nil {
		return nil, err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return nil, err
	}
	var containers Containers
	if err := gojson.Unmarshal(res.Body, &containers); err != nil {
		return nil, apierr.Wrap(apierr.KindSerde, err)
	}
	return containers, nil
}

// GetContainer returns the status and details of a single container.
func (c *Client) GetContainer(t Target, id uuid.UUID) (Container, error) {
	path, err := c.formationPath(t, "/containers/"+id.String())
	if err != nil {
		return Container{}, err
	}
	url := c.session.URL(path, "")
	res, err := c.session.Execute(func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return Container{}, err
	}
	if err := statusErr(res.Status, res.Body); err != nil {
		return Container{}, err
	}
	var container Container
	if err := gojson.Unmarshal(res.Body, &container); err != nil {
		return Container{}, apierr.Wrap(apierr.KindSerde, err)
	}
	return container, nil
}

func statusErr(status int, body []byte) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return apierr.New(apierr.KindUnauthorized)
	case http.StatusNotFound:
		return apierr.New(apierr.KindNotFound)
	default:
		return apierr.HTTPStatus(status, string(body))
	}
}
