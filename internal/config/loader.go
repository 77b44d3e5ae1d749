// internal/config/loader.go
//
// Configuration resolver.
//
/*
Context
--------
`Resolver.Resolve(env)` turns an environment name, a platform Binding, and
the project root into one finished `Config`.  Each setting is resolved on
its own; earlier sources win:

  1. variable table (`.env` beneath the environment, see env.go),
  2. platform Binding (port, routes, bound services),
  3. hard-coded defaults in model.go.

Derived settings (API docs host, CORS origins, HSTS) are computed from the
already-resolved primary settings inside the same call, so no caller ever
observes a half-built record.

`Load()` wraps Resolve for process startup: it discovers the root, caches
the record in an `atomic.Pointer`, and logs a summary.  There is no reload.

Instrumentation
---------------
  • DEBUG spans – root discovery, `.env` load, document selection.
  • WARN  spans – malformed integer variables that were ignored.
  • ERROR spans – unbound service, document parse, validation failures.
  • INFO  span  – final "config resolved" with key highlights.
*/
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/codegov-api/internal/metrics"
	"github.com/yanizio/codegov-api/internal/platform"
)

// ErrInvalidConfig wraps post-resolution validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

var current atomic.Pointer[Config]

// Resolver holds the inputs of one resolution.  Binding is required.  An
// empty Root resolves asset paths against the working directory.  A nil
// Environ reads the process environment.
type Resolver struct {
	Binding platform.Binding
	Root    string
	Environ map[string]string
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// RootDir resolves CODEGOV_API_ROOT or climbs directories until
// config/swagger.json is found.  Falls back to the executable's parent when
// it lives in bin/, then to the working directory.
func RootDir() string {
	if r := os.Getenv("CODEGOV_API_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, configDir, docsDevFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

// EnvironmentName returns NODE_ENV through lookup, or "development".
func EnvironmentName(lookup func(string) (string, bool)) string {
	if v, ok := lookup("NODE_ENV"); ok && v != "" {
		return v
	}
	return DefaultEnvironment
}

/*─────────────────────────────── resolver ─────────────────────────────────*/

// Resolve builds the record for envName ("development" when empty).
//
// Missing inputs always fall back to defaults.  Errors are reserved for
// conditions that must stop startup: an unreadable `.env`, a missing or
// malformed API document, a service the managed platform did not bind, or
// a record that fails validation.
func (r Resolver) Resolve(envName string) (*Config, error) {
	cfg, err := r.resolve(envName)
	if err != nil {
		metrics.ConfigResolutionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ConfigResolutionsTotal.WithLabelValues("ok").Inc()
	metrics.ObserveConfig(cfg.Environment, cfg.IsLocal, cfg.IsProd)
	return cfg, nil
}

func (r Resolver) resolve(envName string) (*Config, error) {
	if r.Binding == nil {
		return nil, errors.New("config: nil platform binding")
	}
	if envName == "" {
		envName = DefaultEnvironment
	}

	_, isProd := prodEnvironments[envName]
	isLocal := r.Binding.IsLocal()

	// The variable table is complete before any rule below reads it.
	dotenv := ""
	if isLocal {
		dotenv = filepath.Join(r.Root, dotenvFile)
	}
	env, err := newEnv(r.Environ, dotenv)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: envName,
		IsProd:      isProd,
		IsLocal:     isLocal,
		Root:        r.Root,
	}

	cfg.LogLevel = logLevel(env, isProd)
	cfg.Port = r.port(env)

	cfg.SearchServiceName = env.String("ELASTICSEARCH_SERVICE_NAME", DefaultSearchName)
	if cfg.SearchURI, err = r.searchURI(env, isLocal, cfg.SearchServiceName); err != nil {
		zap.S().Errorw("config search endpoint unresolved",
			"service", cfg.SearchServiceName, "err", err)
		return nil, err
	}

	cfg.SearchTerms = append([]string(nil), searchTerms...)
	cfg.QueryParams = append([]string(nil), queryParams...)
	cfg.VersionPattern = versionPattern

	cfg.HSTS = hstsPolicy(env, isProd)

	cfg.RemoteMetadata = env.Flag("GET_REMOTE_METADATA")
	cfg.MetadataPath = r.metadataPath(env, cfg.RemoteMetadata, envName)

	docsPath := r.asset(docsDevFile)
	if isProd {
		docsPath = r.asset(docsProdFile)
	}
	host := r.baseURL(env, cfg.Port)
	if host == "" {
		host = DefaultDocsHost
	}
	zap.S().Debugw("config api docs selected", "file", docsPath, "host", host)
	if cfg.APIDocs, err = loadDocument(docsPath, host); err != nil {
		zap.S().Errorw("config api docs load failed", "file", docsPath, "err", err)
		return nil, err
	}

	cfg.AllowedOrigins = allowedOrigins(cfg.Port, isProd)

	if err := validateStruct(cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

/*──────────────────────────── rules ───────────────────────────────────────*/

func logLevel(env *Env, isProd bool) string {
	if isProd {
		return env.String("LOGGER_LEVEL", DefaultLogLevelProd)
	}
	return env.String("LOGGER_LEVEL", DefaultLogLevelDev)
}

func (r Resolver) port(env *Env) int {
	if p, ok := env.Int("PORT"); ok {
		return p
	}
	if p, ok := r.Binding.Port(); ok {
		return p
	}
	return DefaultPort
}

// searchURI resolves the search index endpoint.  In managed mode a service
// the platform did not bind is an error rather than a silent localhost.
func (r Resolver) searchURI(env *Env, isLocal bool, service string) (string, error) {
	if isLocal {
		return env.String("ES_URI", DefaultSearchURI), nil
	}
	creds, err := r.Binding.ServiceCredentials(service)
	if err != nil {
		return "", fmt.Errorf("search service %q: %w", service, err)
	}
	if creds.URI == "" {
		return DefaultSearchURI, nil
	}
	return creds.URI, nil
}

func hstsPolicy(env *Env, isProd bool) HSTS {
	p := HSTS{
		Enabled:           isProd,
		MaxAge:            DefaultHSTSMaxAge,
		Preload:           env.Flag("HSTS_PRELOAD"),
		IncludeSubDomains: env.Flag("HSTS_SUBDOMAINS"),
	}
	if _, ok := env.Lookup("USE_HSTS"); ok {
		p.Enabled = env.Flag("USE_HSTS")
	}
	if n, ok := env.Int("HSTS_MAX_AGE"); ok {
		p.MaxAge = n
	}
	return p
}

func (r Resolver) metadataPath(env *Env, remote bool, envName string) string {
	if loc, ok := env.Lookup("REMOTE_METADATA_LOCATION"); remote && ok {
		return loc
	}
	if envName == testingEnvironment {
		return r.asset(metadataTestingFile)
	}
	return r.asset(metadataFile)
}

// baseURL is API_URL, else the first public route plus /api, else
// localhost:<port>.
func (r Resolver) baseURL(env *Env, port int) string {
	if u, ok := env.Lookup("API_URL"); ok {
		return u
	}
	if uris := r.Binding.AppURIs(); len(uris) > 0 && uris[0] != "" {
		return uris[0] + "/api"
	}
	return "localhost:" + strconv.Itoa(port)
}

func allowedOrigins(port int, isProd bool) []string {
	p := strconv.Itoa(port)
	last := "*"
	if isProd {
		last = ProductionOrigin
	}
	return []string{
		"http://localhost:" + p,
		"http://127.0.0.1:" + p,
		last,
	}
}

func (r Resolver) asset(name string) string {
	return filepath.Join(r.Root, configDir, name)
}

/*──────────────────────────── process cache ───────────────────────────────*/

// Load resolves against the discovered root, caches the record, and logs a
// summary.  Call it once during startup.
func Load(envName string, binding platform.Binding) (*Config, error) {
	root := RootDir()
	zap.S().Debugw("config root resolved", "root", root)

	cfg, err := Resolver{Binding: binding, Root: root}.Resolve(envName)
	if err != nil {
		return nil, err
	}

	current.Store(cfg)
	zap.S().Infow("config resolved",
		"environment", cfg.Environment,
		"local", cfg.IsLocal,
		"port", cfg.Port,
		"search_uri", redact(cfg.SearchURI),
		"hsts", cfg.HSTS.Enabled,
		"metadata", cfg.MetadataPath,
	)
	return cfg, nil
}

// redact hides any password embedded in a bound service URI.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

// Get returns the record cached by Load, or nil before Load succeeds.
func Get() *Config { return current.Load() }
