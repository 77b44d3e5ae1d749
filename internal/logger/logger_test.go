package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesDailyFileAtLevel(t *testing.T) {
	root := t.TempDir()
	defer zap.ReplaceGlobals(zap.NewNop())

	log, err := New(root, zapcore.WarnLevel, false)
	require.NoError(t, err)

	log.Infow("hidden below warn")
	log.Warnw("visible", "k", "v")
	_ = log.Sync()

	body, err := os.ReadFile(filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"msg":"visible"`)
	assert.Contains(t, string(body), `"level":"warn"`)
	assert.NotContains(t, string(body), "hidden below warn")
}
