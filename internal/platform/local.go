package platform

import "fmt"

// Local is the developer-workstation binding: no port, no routes, no bound
// services.
type Local struct{}

func (Local) IsLocal() bool     { return true }
func (Local) Port() (int, bool) { return 0, false }
func (Local) AppURIs() []string { return nil }

func (Local) ServiceCredentials(name string) (Credentials, error) {
	return Credentials{}, fmt.Errorf("%w: %q (local mode)", ErrServiceNotBound, name)
}

// Static is a Binding with fixed answers.  PortNumber 0 means "no port".
type Static struct {
	Local      bool
	PortNumber int
	URIs       []string
	Services   map[string]Credentials
}

func (s Static) IsLocal() bool { return s.Local }

func (s Static) Port() (int, bool) {
	if s.PortNumber == 0 {
		return 0, false
	}
	return s.PortNumber, true
}

func (s Static) AppURIs() []string {
	return append([]string(nil), s.URIs...)
}

func (s Static) ServiceCredentials(name string) (Credentials, error) {
	c, ok := s.Services[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %q", ErrServiceNotBound, name)
	}
	return c, nil
}
