// internal/config/env.go
//
// Resolution-scoped variable table.
//
/*
Context
--------
The Resolver never writes the process environment.  Instead it builds one
koanf instance per resolution with two layers (highest precedence last):

  1. `<root>/.env`, read with godotenv, local mode only.
  2. The process environment, or an explicit map supplied by the caller.

A variable present in the environment therefore shadows the same name in
`.env`, which matches the usual dotenv contract.  Every rule reads through
this table after both layers are merged.

Notes
-----
  • An empty value counts as unset.
  • Booleans are the literal string "true"; anything else is false.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Env is the variable table one resolution reads from.
type Env struct {
	k *koanf.Koanf
}

// newEnv merges the optional dotenv file beneath environ.  A nil environ
// means the process environment.  dotenvPath == "" skips the file layer.
func newEnv(environ map[string]string, dotenvPath string) (*Env, error) {
	k := koanf.New(".")

	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			zap.S().Debugw("config .env not found", "file", dotenvPath)
		case err != nil:
			zap.S().Errorw("config .env load failed", "file", dotenvPath, "err", err)
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		default:
			if err := k.Load(confmap.Provider(toAny(vars), ""), nil); err != nil {
				return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
			}
			zap.S().Debugw("config .env loaded", "file", dotenvPath, "vars", len(vars))
		}
	}

	var p koanf.Provider
	if environ != nil {
		p = confmap.Provider(toAny(environ), "")
	} else {
		p = env.Provider("", ".", nil)
	}
	if err := k.Load(p, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return &Env{k: k}, nil
}

// Lookup returns the value of key and whether it is set to a non-empty
// string.
func (e *Env) Lookup(key string) (string, bool) {
	v := e.k.String(key)
	return v, v != ""
}

// String returns the value of key or def when unset.
func (e *Env) String(key, def string) string {
	if v, ok := e.Lookup(key); ok {
		return v
	}
	return def
}

// Flag is true only when key is exactly "true".
func (e *Env) Flag(key string) bool {
	return e.k.String(key) == "true"
}

// Int parses key as a base-10 integer.  A malformed value is logged and
// reported as unset so the caller falls through to its next source.
func (e *Env) Int(key string) (int, bool) {
	v, ok := e.Lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		zap.S().Warnw("config ignoring non-integer variable", "key", key, "value", v)
		return 0, false
	}
	return n, true
}

func toAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
