// Package search checks that the resolved search index endpoint answers.
// The API never writes to the index from here; the probe only backs the
// /healthz route.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yanizio/codegov-api/internal/metrics"
)

// Probe pings Endpoint with a GET on its root.
type Probe struct {
	endpoint string
	client   *resty.Client
}

// NewProbe builds a Probe with a short request timeout.  Credentials in the
// endpoint URI are sent as basic auth.  A bare host:port is probed over
// plain HTTP.
func NewProbe(endpoint string) *Probe {
	c := resty.New().SetTimeout(3 * time.Second)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	if u, err := url.Parse(endpoint); err == nil && u.User != nil {
		pw, _ := u.User.Password()
		c.SetBasicAuth(u.User.Username(), pw)
		u.User = nil
		endpoint = u.String()
	}
	return &Probe{endpoint: endpoint, client: c}
}

// Endpoint is the probed URL without credentials.
func (p *Probe) Endpoint() string { return p.endpoint }

// Check returns nil when the endpoint answers 2xx.
func (p *Probe) Check(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(p.endpoint)
	if err == nil && !resp.IsSuccess() {
		err = fmt.Errorf("search endpoint status %d", resp.StatusCode())
	}
	if err != nil {
		metrics.SearchProbeTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SearchProbeTotal.WithLabelValues("ok").Inc()
	return nil
}
