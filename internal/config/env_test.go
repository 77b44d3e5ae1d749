package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/codegov-api/internal/platform"
)

func TestEnv_LookupTreatsEmptyAsUnset(t *testing.T) {
	e, err := newEnv(map[string]string{"A": "x", "B": ""}, "")
	require.NoError(t, err)

	v, ok := e.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = e.Lookup("B")
	assert.False(t, ok)
	assert.Equal(t, "def", e.String("B", "def"))
	assert.Equal(t, "def", e.String("MISSING", "def"))
}

func TestEnv_FlagIsLiteral(t *testing.T) {
	e, err := newEnv(map[string]string{"T": "true", "F": "false", "ONE": "1", "UP": "TRUE"}, "")
	require.NoError(t, err)

	assert.True(t, e.Flag("T"))
	assert.False(t, e.Flag("F"))
	assert.False(t, e.Flag("ONE"))
	assert.False(t, e.Flag("UP"))
	assert.False(t, e.Flag("MISSING"))
}

func TestEnv_Int(t *testing.T) {
	e, err := newEnv(map[string]string{"N": "42", "BAD": "4x"}, "")
	require.NoError(t, err)

	n, ok := e.Int("N")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = e.Int("BAD")
	assert.False(t, ok)
	_, ok = e.Int("MISSING")
	assert.False(t, ok)
}

func TestEnv_DotenvBeneathEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "FROM_FILE=file\nSHARED=file\n")

	e, err := newEnv(map[string]string{"SHARED": "env"}, path)
	require.NoError(t, err)

	assert.Equal(t, "file", e.String("FROM_FILE", ""))
	assert.Equal(t, "env", e.String("SHARED", ""))
}

func TestEnv_MissingDotenvIsSkipped(t *testing.T) {
	_, err := newEnv(map[string]string{}, filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestEnv_UnreadableDotenvFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := newEnv(map[string]string{}, dir)
	assert.Error(t, err)
}

func TestResolve_DotenvLocalOnly(t *testing.T) {
	root := newRoot(t)
	writeFile(t, filepath.Join(root, dotenvFile), "LOGGER_LEVEL=WARN\nPORT=4500\nES_URI=http://dotenv:9200\n")

	cfg := resolve(t, root, local, map[string]string{"PORT": "4600"}, "")
	assert.Equal(t, "WARN", cfg.LogLevel)
	assert.Equal(t, 4600, cfg.Port, "environment shadows .env")
	assert.Equal(t, "http://dotenv:9200", cfg.SearchURI)

	cfg = resolve(t, root, managed(map[string]platform.Credentials{
		DefaultSearchName: {URI: "http://es:9200"},
	}), nil, "")
	assert.Equal(t, "DEBUG", cfg.LogLevel, ".env ignored in managed mode")
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestResolve_DotenvLeavesProcessEnvironmentAlone(t *testing.T) {
	root := newRoot(t)
	writeFile(t, filepath.Join(root, dotenvFile), "CODEGOV_DOTENV_PROBE=1\nLOGGER_LEVEL=WARN\n")
	t.Setenv("LOGGER_LEVEL", "ERROR")
	t.Setenv("ES_URI", "")
	t.Setenv("PORT", "")
	t.Setenv("HSTS_MAX_AGE", "")

	cfg, err := Resolver{Binding: local, Root: root}.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.LogLevel)

	_, set := os.LookupEnv("CODEGOV_DOTENV_PROBE")
	assert.False(t, set)

	// Loading the same file again yields the same record.
	again, err := Resolver{Binding: local, Root: root}.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
