package platform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

const (
	envApplication = "VCAP_APPLICATION"
	envServices    = "VCAP_SERVICES"
	envPort        = "PORT"
)

type vcapApplication struct {
	Name            string   `json:"name"`
	Port            *int     `json:"port"`
	ApplicationURIs []string `json:"application_uris"`
	URIs            []string `json:"uris"`
}

type vcapService struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Credentials map[string]any `json:"credentials"`
}

// CloudFoundry is the managed-platform binding.  It is built once from the
// VCAP_* variables and never re-reads them.
type CloudFoundry struct {
	name     string
	port     int
	hasPort  bool
	uris     []string
	services map[string]vcapService
}

// NewCloudFoundry parses VCAP_APPLICATION and VCAP_SERVICES through lookup.
// Either variable may be absent; malformed JSON in either one is an error.
func NewCloudFoundry(lookup func(string) (string, bool)) (*CloudFoundry, error) {
	cf := &CloudFoundry{services: map[string]vcapService{}}

	if raw, ok := lookup(envApplication); ok && raw != "" {
		var app vcapApplication
		if err := json.Unmarshal([]byte(raw), &app); err != nil {
			return nil, fmt.Errorf("parse %s: %w", envApplication, err)
		}
		cf.name = app.Name
		cf.uris = app.ApplicationURIs
		if len(cf.uris) == 0 {
			cf.uris = app.URIs
		}
		if app.Port != nil {
			cf.port, cf.hasPort = *app.Port, true
		}
	}

	// Diego cells expose the port only through PORT.
	if !cf.hasPort {
		if raw, ok := lookup(envPort); ok {
			if p, err := strconv.Atoi(raw); err == nil {
				cf.port, cf.hasPort = p, true
			}
		}
	}

	if raw, ok := lookup(envServices); ok && raw != "" {
		var byLabel map[string][]vcapService
		if err := json.Unmarshal([]byte(raw), &byLabel); err != nil {
			return nil, fmt.Errorf("parse %s: %w", envServices, err)
		}
		labels := make([]string, 0, len(byLabel))
		for l := range byLabel {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for _, l := range labels {
			for _, svc := range byLabel[l] {
				if _, dup := cf.services[svc.Name]; dup || svc.Name == "" {
					continue
				}
				cf.services[svc.Name] = svc
			}
		}
	}
	return cf, nil
}

// Name is the application name reported by the platform.
func (c *CloudFoundry) Name() string { return c.name }

func (c *CloudFoundry) IsLocal() bool     { return false }
func (c *CloudFoundry) Port() (int, bool) { return c.port, c.hasPort }
func (c *CloudFoundry) AppURIs() []string { return append([]string(nil), c.uris...) }

// ServiceCredentials looks up a bound service instance by its exact name.
func (c *CloudFoundry) ServiceCredentials(name string) (Credentials, error) {
	svc, ok := c.services[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %q", ErrServiceNotBound, name)
	}
	creds := Credentials{Raw: svc.Credentials}
	if uri, ok := svc.Credentials["uri"].(string); ok {
		creds.URI = uri
	}
	return creds, nil
}
