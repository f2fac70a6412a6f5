package e2e

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/bnema/fin/internal/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	api := httptest.NewServer(fakeapi.New().Handler())
	t.Cleanup(api.Close)

	home := t.TempDir()
	binaryPath := buildBinary(t)
	configPath, err := writeConfig(home, api.URL)
	require.NoError(t, err)

	_, stderr, err := runFin(t, binaryPath, home,
		"--config", configPath,
		"register",
		"--name", "Vlad",
		"--email", "vlad@example.com",
		"--password", "secret",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runFin(t, binaryPath, home, "--config", configPath, "account", "create", "--name", "Cash")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Created account Cash")

	stdout, stderr, err = runFin(t, binaryPath, home, "--config", configPath, "account", "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "accounts: 1")
	assert.Contains(t, stdout, "0.00 EUR")

	stdout, stderr, err = runFin(t, binaryPath, home, "--config", configPath, "whoami")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Vlad <vlad@example.com>")

	_, err = os.Stat(filepath.Join(home, "state", "session", "current"))
	assert.NoError(t, err)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "fin-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/fin")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build fin binary: %s", string(output))
	return binaryPath
}

func runFin(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "XDG_CONFIG_HOME="+filepath.Join(home, ".config"))
	cmd.Dir = home

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeConfig(home, baseURL string) (string, error) {
	config := fmt.Sprintf(`[api]
base_url = %q
timeout = "10s"

[session]
backend = "file"
dir = %q

[log]
level = "warn"

[ui]
currency = "EUR"
`, baseURL, filepath.Join(home, "state"))

	path := filepath.Join(home, "config.toml")
	return path, os.WriteFile(path, []byte(config), 0o600)
}
