package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/fin/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONComponentEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "debug", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	Created(Component(logger, "accounts"), "account", domain.ID("7"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "account created", line["msg"])
	assert.Equal(t, "accounts", line["component"])
	assert.Equal(t, "7", line["account_id"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	t.Parallel()

	_, _, err := New(Options{Level: "loud"})
	require.Error(t, err)

	_, _, err = New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "fin.log")
	logger, closer, err := New(Options{File: path})
	require.NoError(t, err)

	Removed(logger, "transaction", domain.ID("3"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transaction removed")
	assert.Contains(t, string(data), "transaction_id=3")
}
