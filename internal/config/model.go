// internal/config/model.go
//
// Typed configuration record for the code.gov API.
//
// Context
// -------
// `Resolver.Resolve` fills every field below exactly once.  The record is
// shared by pointer and read-only from then on; no package in this module
// writes to it after Resolve returns.
//
// Notes
// -----
//   • `validate` tags are post-conditions checked by validator.go; a
//     violation aborts startup.
//   • Root is runtime-only and never read from a variable.

package config

import (
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

//
// Fixed settings
//

const (
	DefaultEnvironment  = "development"
	DefaultLogLevelProd = "INFO"
	DefaultLogLevelDev  = "DEBUG"
	DefaultPort         = 3000
	DefaultSearchURI    = "http://localhost:9200"
	DefaultSearchName   = "code_gov_elasticsearch"
	DefaultHSTSMaxAge   = 31536000
	DefaultDocsHost     = "api.code.gov"
	ProductionOrigin    = "https://code.gov"
	testingEnvironment  = "testing"
)

// prodEnvironments is the closed set of names that switch production mode on.
var prodEnvironments = map[string]struct{}{
	"prod":       {},
	"production": {},
}

// versionPattern accepts API versions 1.x and 1.x.y.
var versionPattern = regexp.MustCompile(`^1\.\d+(\.\d+)?$`)

// searchTerms are the document fields matched by free-text search.
var searchTerms = []string{
	"name",
	"description",
	"agency.name",
	"agency.acronym",
	"tags",
	"languages",
	"permissions.usageType",
}

// queryParams are the accepted query-string filter keys.
var queryParams = []string{
	"agency.acronym",
	"agency.name",
	"agency.website",
	"status",
	"vcs",
	"repositoryURL",
	"homepageURL",
	"downloadURL",
	"disclaimerURL",
	"tags",
	"languages",
	"contact.name",
	"contact.email",
	"organization",
	"laborHours",
	"permissions.licenses.name",
	"permissions.usageType",
	"date.created",
	"date.lastModified",
	"date.metadataLastUpdated",
}

//
// Project-relative assets
//

const (
	dotenvFile          = ".env"
	configDir           = "config"
	metadataFile        = "agency_metadata.json"
	metadataTestingFile = "testing_agency_metadata.json"
	docsDevFile         = "swagger.json"
	docsProdFile        = "swagger.prod.json"
)

//
// Record
//

// HSTS is the Strict-Transport-Security policy.
type HSTS struct {
	Enabled           bool
	MaxAge            int `validate:"gte=0"`
	Preload           bool
	IncludeSubDomains bool
}

// Config is the immutable aggregate returned by Resolve and cached by Load.
type Config struct {
	Environment string
	IsProd      bool
	IsLocal     bool
	LogLevel    string `validate:"required,loglevel"`
	Port        int    `validate:"min=1,max=65535"`

	SearchServiceName string `validate:"required"`
	SearchURI         string `validate:"required"`
	SearchTerms       []string
	QueryParams       []string

	VersionPattern *regexp.Regexp `validate:"required"`
	HSTS           HSTS

	RemoteMetadata bool
	MetadataPath   string `validate:"required"`

	APIDocs        map[string]any `validate:"required"`
	AllowedOrigins []string       `validate:"len=3"`

	Root string
}

// ZapLevel maps LogLevel onto a zap level.  LogLevel is validated during
// resolution, so the fallback only matters for hand-built records.
func (c *Config) ZapLevel() zapcore.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// parseLevel accepts zap level names in any case, plus "trace" and
// "warning" as aliases for debug and warn.
func parseLevel(s string) (zapcore.Level, error) {
	switch l := strings.ToLower(s); l {
	case "trace":
		return zapcore.DebugLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	default:
		return zapcore.ParseLevel(l)
	}
}
