package app_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/router/app"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := app.NewLogger(&buf, app.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("swap executed", "kind", "exact_input")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "swap executed", line["message"])
	require.Equal(t, "exact_input", line["kind"])

	_, err = app.NewLogger(&buf, app.LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	_, err = app.NewLogger(&buf, app.LogConfig{Level: "info", Format: "xml"})
	require.Error(t, err)
}
