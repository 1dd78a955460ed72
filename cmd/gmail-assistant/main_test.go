package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/hal9000y/gmail-assistant/internal/auth"
	"github.com/hal9000y/gmail-assistant/internal/config"
	"github.com/hal9000y/gmail-assistant/internal/tone"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestTonesCommand(t *testing.T) {
	var entries []toneEntry
	require.NoError(t, json.Unmarshal([]byte(execute(t, "tones")), &entries))

	require.Len(t, entries, len(tone.IDs()))
	for i, id := range tone.IDs() {
		assert.Equal(t, id, entries[i].ID)
		assert.NotEmpty(t, entries[i].Description)
		for _, alt := range entries[i].Alternatives {
			assert.NotEqual(t, id, alt.Tone)
		}
	}
}

func TestScoreCommand(t *testing.T) {
	var res tone.MatchResult
	require.NoError(t, json.Unmarshal([]byte(execute(t, "score", "grateful", "Thank", "you,", "I", "appreciate", "it")), &res))

	assert.Equal(t, tone.Grateful, res.Tone)
	assert.Equal(t, 2, res.KeywordMatches)
	assert.Positive(t, res.Score)
}

func TestScoreCommandNeedsText(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"score", "formal"})
	require.Error(t, root.Execute())
}

type tokenMock struct {
	err error
}

func (m tokenMock) OAuthToken() (*oauth2.Token, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &oauth2.Token{AccessToken: "t"}, nil
}

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name     string
		tok      tokenMock
		expected healthStatus
	}{
		{
			name:     "authenticated",
			expected: healthStatus{Status: "ok", Authenticated: true, Provider: "openai"},
		},
		{
			name:     "no token",
			tok:      tokenMock{err: auth.ErrTokenNotSet},
			expected: healthStatus{Status: "ok", Provider: "openai"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthHandler(tc.tok, "openai").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			var got healthStatus
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var stdout bytes.Buffer

	log, closeFn, err := newLogger(config.Config{LogLevel: "info", LogJSON: true}, &stdout)
	require.NoError(t, err)
	log.Info().Str("msg_id", "m1").Msg("hello")
	log.Debug().Msg("hidden")
	closeFn()

	var line map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "m1", line["msg_id"])
	assert.NotContains(t, stdout.String(), "hidden")

	stdout.Reset()
	log, closeFn, err = newLogger(config.Config{LogLevel: "info", Stdio: true}, &stdout)
	require.NoError(t, err)
	log.Info().Msg("dropped")
	closeFn()
	assert.Empty(t, stdout.String(), "stdout belongs to the MCP transport")

	path := filepath.Join(t.TempDir(), "app.log")
	log, closeFn, err = newLogger(config.Config{LogLevel: "debug", Stdio: true, LogFile: path}, &stdout)
	require.NoError(t, err)
	log.Debug().Msg("to file")
	closeFn()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, stdout.String())

	_, _, err = newLogger(config.Config{LogLevel: "loud"}, &stdout)
	require.Error(t, err)
}

func TestNewOAuthConfig(t *testing.T) {
	cfg := newOAuthConfig(config.Config{OAuthClientID: "id", OAuthClientSecret: "s"}, "127.0.0.1:8080")
	assert.Equal(t, "http://127.0.0.1:8080/oauth", cfg.RedirectURL)
	assert.Equal(t, auth.Scopes, cfg.Scopes)

	cfg = newOAuthConfig(config.Config{OAuthURL: "https://example.com/oauth"}, "127.0.0.1:8080")
	assert.Equal(t, "https://example.com/oauth", cfg.RedirectURL)
}
