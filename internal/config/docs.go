package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

// loadDocument parses the API documentation descriptor at path and stamps
// its top-level "host" field.  The rest of the document passes through
// untouched.
func loadDocument(path, host string) (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("load api docs %s: %w", path, err)
	}
	if err := k.Set("host", host); err != nil {
		return nil, fmt.Errorf("stamp api docs host: %w", err)
	}
	return k.Raw(), nil
}
