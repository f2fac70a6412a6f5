package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeAPI starts an in-memory API and points the CLI at it with a file
// session store under a temp directory.
func newFakeAPI(t *testing.T) *fakeapi.Server {
	t.Helper()

	server := fakeapi.New()
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("FIN_API_BASE_URL", httpServer.URL)
	t.Setenv("FIN_SESSION_BACKEND", "file")
	t.Setenv("FIN_SESSION_DIR", filepath.Join(home, "state"))
	t.Setenv("FIN_LOG_LEVEL", "error")

	return server
}

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionNeedsNoConfig(t *testing.T) {
	t.Setenv("FIN_API_BASE_URL", "not a url")

	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestInvalidConfigIsReported(t *testing.T) {
	newFakeAPI(t)
	t.Setenv("FIN_SESSION_BACKEND", "floppy")

	_, _, err := executeCLI(t, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "session.backend")
}

func TestLoginRequiresPasswordFlag(t *testing.T) {
	newFakeAPI(t)

	_, _, err := executeCLI(t, "login", "--email", "vlad@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"password\" not set")
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	server := newFakeAPI(t)
	server.AddUser("Vlad", "vlad@example.com", "secret")

	stdout, _, err := executeCLI(t, "login", "--email", "vlad@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Vlad.")

	stdout, _, err = executeCLI(t, "whoami", "--cached")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Vlad <vlad@example.com>")

	stdout, _, err = executeCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Vlad <vlad@example.com>")

	_, err = os.Stat(filepath.Join(os.Getenv("FIN_SESSION_DIR"), "session", "cookies"))
	assert.NoError(t, err)
}

func TestLoginWrongPasswordFails(t *testing.T) {
	server := newFakeAPI(t)
	server.AddUser("Vlad", "vlad@example.com", "secret")

	_, _, err := executeCLI(t, "login", "--email", "vlad@example.com", "--password", "nope")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrorKindSemantic))

	_, _, err = executeCLI(t, "whoami", "--cached")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAccountAndTransactionLifecycle(t *testing.T) {
	newFakeAPI(t)

	_, _, err := executeCLI(t, "register", "--name", "Vlad", "--email", "vlad@example.com", "--password", "secret")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "account", "create", "--name", "Cash", "--json")
	require.NoError(t, err)
	var account domain.Account
	require.NoError(t, json.Unmarshal([]byte(stdout), &account))
	assert.Equal(t, "Cash", account.Name)
	require.False(t, account.ID.IsZero())

	stdout, _, err = executeCLI(t, "transaction", "create",
		"--account", account.ID.String(),
		"--type", "income",
		"--name", "Salary",
		"--sum", "100,50",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "100.50")

	_, _, err = executeCLI(t, "tx", "create",
		"--account", account.ID.String(),
		"--type", "expense",
		"--name", "Coffee",
		"--sum", "0.50",
	)
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 1")
	assert.Contains(t, stdout, "100.00 ₽")

	stdout, _, err = executeCLI(t, "transaction", "list", "--account", account.ID.String())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cash")
	assert.Contains(t, stdout, "+ 100.50 ₽")
	assert.Contains(t, stdout, "- 0.50 ₽")

	stdout, _, err = executeCLI(t, "transaction", "list", "--account", account.ID.String(), "--json")
	require.NoError(t, err)
	var listed accountTransactions
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.Len(t, listed.Transactions, 2)

	_, _, err = executeCLI(t, "transaction", "remove", "--id", listed.Transactions[1].ID.String())
	require.NoError(t, err)

	_, _, err = executeCLI(t, "account", "remove", "--id", account.ID.String())
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, "account", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)
}

func TestTransactionCreateValidatesLocally(t *testing.T) {
	server := newFakeAPI(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "unknown type",
			args: []string{"--type", "gift", "--sum", "1"},
			want: domain.ErrInvalidKind,
		},
		{
			name: "negative sum",
			args: []string{"--type", "income", "--sum", "-1"},
			want: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"transaction", "create", "--account", "1", "--name", "x"}, tt.args...)
			_, _, err := executeCLI(t, args...)
			require.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, server.RequestIDs())
}

func TestLogoutForgetsSession(t *testing.T) {
	server := newFakeAPI(t)
	server.AddUser("Vlad", "vlad@example.com", "secret")

	_, _, err := executeCLI(t, "login", "--email", "vlad@example.com", "--password", "secret")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out.")

	_, _, err = executeCLI(t, "whoami")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, _, err = executeCLI(t, "account", "list")
	require.Error(t, err)
}

func TestConfigShowPrintsEffectiveTOML(t *testing.T) {
	newFakeAPI(t)
	t.Setenv("FIN_API_TIMEOUT", "3s")

	stdout, _, err := executeCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[api]")
	assert.Regexp(t, `timeout = ['"]3s['"]`, stdout)
	assert.Regexp(t, `backend = ['"]file['"]`, stdout)
}

func TestDebugMetricsCountsProbe(t *testing.T) {
	newFakeAPI(t)

	stdout, _, err := executeCLI(t, "debug", "metrics")
	require.NoError(t, err)
	assert.Contains(t, stdout, `fin_transport_requests_total{method="GET",outcome="response"} 1`)
}
