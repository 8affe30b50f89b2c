package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/bnema/training-assistant-cli/internal/ports/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAskPrintsExchange(t *testing.T) {
	server := newAssistantServer(t, http.StatusOK, `{"response":"Practice daily."}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ask", "--plain", "How", "do", "I", "improve?")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Training Assistant")
	assert.NotContains(t, stdout, "turns:")
	assert.Contains(t, stdout, "How do I improve?")
	assert.Contains(t, stdout, "Practice daily.")
}

func TestAskShowsHeaderUnlessPlain(t *testing.T) {
	server := newAssistantServer(t, http.StatusOK, `{"response":"Practice daily."}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ask", "How do I improve?")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Training Assistant")
	assert.Contains(t, stdout, "turns: 2")
}

func TestAskJSONOutput(t *testing.T) {
	server := newAssistantServer(t, http.StatusOK, `{"response":"Hi there!"}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ask", "--json", "Hello")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var state domain.SessionState
	require.NoError(t, json.Unmarshal([]byte(stdout), &state))
	require.Len(t, state.Transcript, 2)
	assert.Equal(t, domain.OriginUser, state.Transcript[0].Origin)
	assert.Equal(t, "Hello", state.Transcript[0].Text)
	assert.Equal(t, domain.OriginAssistant, state.Transcript[1].Origin)
	assert.Equal(t, "Hi there!", state.Transcript[1].Text)
	assert.False(t, state.Pending)
	assert.Empty(t, state.LastError)
	assert.Empty(t, state.Draft)
}

func TestAskServiceFailureKeepsUserTurn(t *testing.T) {
	server := newAssistantServer(t, http.StatusInternalServerError, `{"detail":"Chat error: boom"}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ask", "--json", "Hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, errTurnFailed)
	assert.Contains(t, err.Error(), string(domain.FailureService))

	var state domain.SessionState
	require.NoError(t, json.Unmarshal([]byte(stdout), &state))
	require.Len(t, state.Transcript, 1)
	assert.Equal(t, "Hello", state.Transcript[0].Text)
	assert.Equal(t, domain.FailureService.UserMessage(), state.LastError)
	assert.False(t, state.Pending)
}

func TestAskMalformedResponseShowsError(t *testing.T) {
	server := newAssistantServer(t, http.StatusOK, `{"answer":"wrong field"}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ask", "--plain", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(domain.FailureMalformedResponse))
	assert.Contains(t, stdout, "Error:")
	assert.Contains(t, stdout, "Hello")
	assert.NotContains(t, stdout, "Assistant")
}

func TestAskBlankMessageIsRejected(t *testing.T) {
	server := newAssistantServer(t, http.StatusOK, `{"response":"unused"}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ask", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyMessage)
	assert.Empty(t, stdout)
}

func TestAskRequiresMessage(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "", "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestAskTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	_, _, err := executeCLI(t, t.TempDir(), baseURL, "ask", "--json", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(domain.FailureTransport))
}

func TestInvalidBaseURLFailsEveryCommand(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "localhost:8000", "ask", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.base_url")
}

func TestConfigInitRepairsBrokenConfigFile(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".config", "training-assistant")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`version = 1

[service]
base_url = "ftp://assistant.example.com"
`), 0o600))

	_, _, err := executeCLI(t, home, "", "ask", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.base_url")

	_, _, err = executeCLI(t, home, "", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config init --force")

	stdout, _, err := executeCLI(t, home, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")

	_, _, err = executeCLI(t, home, "", "config", "init", "--force")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "http://localhost:8000")
}

func TestPingReportsHealthyService(t *testing.T) {
	server := newAssistantServer(t, http.StatusOK, `{"status":"ok"}`)

	stdout, _, err := executeCLI(t, t.TempDir(), server.URL, "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok\t"+server.URL+"\n", stdout)
}

func TestRunPingClassifiesFailure(t *testing.T) {
	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Health(mock.Anything).Return(errors.Join(domain.ErrTransportFailure, context.DeadlineExceeded))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	err := runPing(cmd, checker, "http://assistant.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping http://assistant.test (transport_failure)")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfigInitWritesDefaultsOnce(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "", "config", "init")
	require.NoError(t, err)

	path := filepath.Join(home, ".config", "training-assistant", "config.toml")
	assert.Contains(t, stdout, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url = ")
	assert.Contains(t, string(data), "http://localhost:8000")

	_, _, err = executeCLI(t, home, "", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCLI(t, home, "", "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowReflectsFileAndEnv(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".config", "training-assistant")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`version = 1

[session]
id_strategy = "counter"
`), 0o600))

	stdout, _, err := executeCLI(t, home, "https://assistant.example.com", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://assistant.example.com")
	assert.Contains(t, stdout, "counter")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"status\"")
}

func newAssistantServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func executeCLI(t *testing.T, home string, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("TA_CONFIG_FILE", "")
	t.Setenv("TA_LOG_LEVEL", "disabled")
	if baseURL != "" {
		t.Setenv("TA_SERVICE_BASE_URL", baseURL)
	} else {
		t.Setenv("TA_SERVICE_BASE_URL", "")
	}

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
