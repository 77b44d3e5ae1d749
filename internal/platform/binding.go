// internal/platform/binding.go
//
// Hosting-environment capability consumed by the configuration Resolver.
//
/*
Context
--------
A Binding answers three questions about the running process:

  1. Is it running on a developer machine or on the managed platform?
  2. Which port and public URIs did the platform assign to it?
  3. Which credentials are bound for a named backing service?

Adapters
--------
  • CloudFoundry – parses VCAP_APPLICATION and VCAP_SERVICES.
  • Local        – developer workstation, nothing bound.
  • Static       – fixed values for tests and embedders.

The caller picks the adapter (usually through Detect) and hands it to the
Resolver.  The Resolver never inspects the hosting environment itself.
*/
package platform

import "errors"

// ErrServiceNotBound is returned by ServiceCredentials when no bound service
// instance carries the requested name.
var ErrServiceNotBound = errors.New("service not bound")

// Credentials is the connection info a platform binds for one service
// instance.  URI is empty when the binding carries no "uri" entry.
type Credentials struct {
	URI string
	Raw map[string]any
}

// Binding abstracts a hosting environment.
type Binding interface {
	// IsLocal reports whether the process runs outside the managed platform.
	IsLocal() bool
	// Port returns the platform-assigned port, if any.
	Port() (int, bool)
	// AppURIs returns the public routes mapped to the application.
	AppURIs() []string
	// ServiceCredentials returns the credentials bound for service name.
	ServiceCredentials(name string) (Credentials, error)
}

// Detect returns a CloudFoundry binding when VCAP_APPLICATION is visible
// through lookup, and a Local binding otherwise.
func Detect(lookup func(string) (string, bool)) (Binding, error) {
	if v, ok := lookup(envApplication); ok && v != "" {
		return NewCloudFoundry(lookup)
	}
	return Local{}, nil
}
