// Package metadata loads the agency metadata document selected during
// configuration resolution.  A location starting with http:// or https://
// is fetched over the network; anything else is a path on disk.
//
// The document is opaque here: it must be a JSON object or array, nothing
// more is checked.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/yanizio/codegov-api/internal/metrics"
)

// DefaultTimeout bounds one remote fetch, retries included.
const DefaultTimeout = 10 * time.Second

// ErrNotJSON is returned when a document is not a JSON object or array.
var ErrNotJSON = errors.New("not a JSON object or array")

// Document is a loaded metadata blob and where it came from.
type Document struct {
	Source string
	Remote bool
	Body   json.RawMessage
}

// Loader reads metadata documents.  The zero value is not usable; call
// NewLoader.
type Loader struct {
	client *resty.Client
}

// NewLoader returns a Loader whose HTTP client times out after
// DefaultTimeout and retries transient failures twice.
func NewLoader() *Loader {
	return NewLoaderWithClient(resty.New().
		SetTimeout(DefaultTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond).
		SetHeader("Accept", "application/json"))
}

// NewLoaderWithClient wraps a caller-configured resty client.
func NewLoaderWithClient(c *resty.Client) *Loader {
	return &Loader{client: c}
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load fetches or reads location and checks that it holds a JSON object or
// array.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	remote := IsRemote(location)
	source := "local"
	if remote {
		source = "remote"
	}

	body, err := l.read(ctx, location, remote)
	if err == nil {
		err = checkJSON(body)
	}
	if err != nil {
		metrics.MetadataLoadTotal.WithLabelValues(source, "error").Inc()
		zap.S().Errorw("metadata load failed", "location", location, "err", err)
		return nil, fmt.Errorf("metadata %s: %w", location, err)
	}

	metrics.MetadataLoadTotal.WithLabelValues(source, "ok").Inc()
	zap.S().Debugw("metadata loaded", "location", location, "bytes", len(body))
	return &Document{Source: location, Remote: remote, Body: body}, nil
}

func (l *Loader) read(ctx context.Context, location string, remote bool) ([]byte, error) {
	if !remote {
		return os.ReadFile(location)
	}
	resp, err := l.client.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

func checkJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') || !json.Valid(trimmed) {
		return ErrNotJSON
	}
	return nil
}
