package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetOutput_RedirectsExistingComponents(t *testing.T) {
	t.Cleanup(func() { SetOutput(os.Stdout) })

	log := Component("provider")

	var buf bytes.Buffer
	SetOutput(&buf)
	log.Info("attempt succeeded", "provider", "openai")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "attempt succeeded", rec["msg"])
	require.Equal(t, "provider", rec["component"])
	require.Equal(t, "openai", rec["provider"])
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() {
		SetLevel("info")
		SetOutput(os.Stdout)
	})

	var buf bytes.Buffer
	SetOutput(&buf)

	SetLevel("warn")
	L.Info("hidden")
	require.Zero(t, buf.Len())

	SetLevel("debug")
	L.Debug("shown")
	require.Contains(t, buf.String(), `"msg":"shown"`)
}
