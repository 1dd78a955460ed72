package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/hal9000y/gmail-assistant/internal/auth"
)

// newProvider fakes the token endpoint of an OAuth2 provider.
func newProvider(t *testing.T) *oauth2.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-1234","token_type":"Bearer","refresh_token":"r","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/oauth",
		Scopes:       auth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
	}
}

func stateFrom(t *testing.T, redirect string) string {
	t.Helper()
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestAuthorizeCode(t *testing.T) {
	tok, err := auth.NewToken(newProvider(t), "", zerolog.Nop())
	require.NoError(t, err)

	_, err = tok.OAuthToken()
	require.ErrorIs(t, err, auth.ErrTokenNotSet)

	redirect, err := tok.RedirectURL()
	require.NoError(t, err)
	assert.Contains(t, redirect, "access_type=offline")
	state := stateFrom(t, redirect)
	require.NotEmpty(t, state)

	require.NoError(t, tok.AuthorizeCode(context.Background(), "good-code", state))

	got, err := tok.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1234", got.AccessToken)

	err = tok.AuthorizeCode(context.Background(), "good-code", state)
	require.ErrorIs(t, err, auth.ErrInvalidState, "state is single use")
}

func TestAuthorizeCodeRejectsUnknownState(t *testing.T) {
	tok, err := auth.NewToken(newProvider(t), "", zerolog.Nop())
	require.NoError(t, err)

	require.ErrorIs(t, tok.AuthorizeCode(context.Background(), "good-code", "forged"), auth.ErrInvalidState)
	require.ErrorIs(t, tok.AuthorizeCode(context.Background(), "good-code", ""), auth.ErrInvalidState)
}

func TestPersistAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cfg := newProvider(t)

	tok, err := auth.NewToken(cfg, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, tok.Persist(), "nothing to persist yet")
	assert.NoFileExists(t, path)

	state := stateFrom(t, must(tok.RedirectURL()))
	require.NoError(t, tok.AuthorizeCode(context.Background(), "good-code", state))
	require.NoError(t, tok.Persist())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := auth.NewToken(cfg, path, zerolog.Nop())
	require.NoError(t, err)
	got, err := reloaded.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1234", got.AccessToken)

	require.NoError(t, reloaded.Clear())
	assert.NoFileExists(t, path)
	_, err = reloaded.OAuthToken()
	require.ErrorIs(t, err, auth.ErrTokenNotSet)
	require.NoError(t, reloaded.Clear(), "clearing twice is fine")
}

func TestNewTokenBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := auth.NewToken(newProvider(t), path, zerolog.Nop())
	require.Error(t, err)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

type tokMock struct {
	AuthorizeCodeFunc func(ctx context.Context, code, state string) error
	OAuthTokenFunc    func() (*oauth2.Token, error)
	RedirectURLFunc   func() (string, error)
	ClearFunc         func() error
}

func (m *tokMock) AuthorizeCode(ctx context.Context, code, state string) error {
	return m.AuthorizeCodeFunc(ctx, code, state)
}
func (m *tokMock) OAuthToken() (*oauth2.Token, error) { return m.OAuthTokenFunc() }
func (m *tokMock) RedirectURL() (string, error)       { return m.RedirectURLFunc() }
func (m *tokMock) Clear() error                       { return m.ClearFunc() }

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) auth.Status {
	t.Helper()
	var st auth.Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	return st
}

func TestHTTPHandlerStatus(t *testing.T) {
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	h := auth.NewHTTPHandler(&tokMock{
		OAuthTokenFunc: func() (*oauth2.Token, error) {
			return &oauth2.Token{AccessToken: "abcdefgh1234", Expiry: expiry}, nil
		},
	}, zerolog.Nop())

	rec := serve(h, "/oauth")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, auth.Status{
		Authenticated: true,
		ExpiresAt:     "2030-01-02T03:04:05Z",
		AccessToken:   "XXXXXXXX1234",
	}, decodeStatus(t, rec))
}

func TestHTTPHandlerNoToken(t *testing.T) {
	h := auth.NewHTTPHandler(&tokMock{
		OAuthTokenFunc: func() (*oauth2.Token, error) { return nil, auth.ErrTokenNotSet },
	}, zerolog.Nop())

	rec := serve(h, "/oauth")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeStatus(t, rec).Authenticated)
}

func TestHTTPHandlerRedirect(t *testing.T) {
	h := auth.NewHTTPHandler(&tokMock{
		RedirectURLFunc: func() (string, error) { return "https://accounts.example.com/auth?state=s", nil },
	}, zerolog.Nop())

	rec := serve(h, "/oauth?redirect=1")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.example.com/auth?state=s", rec.Header().Get("Location"))
}

func TestHTTPHandlerCode(t *testing.T) {
	var gotCode, gotState string
	h := auth.NewHTTPHandler(&tokMock{
		AuthorizeCodeFunc: func(_ context.Context, code, state string) error {
			gotCode, gotState = code, state
			if code == "bad" {
				return auth.ErrInvalidState
			}
			return nil
		},
	}, zerolog.Nop())

	rec := serve(h, "/oauth?code=c1&state=s1")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/oauth", rec.Header().Get("Location"))
	assert.Equal(t, "c1", gotCode)
	assert.Equal(t, "s1", gotState)

	rec = serve(h, "/oauth?code=bad&state=s1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPHandlerLogout(t *testing.T) {
	cleared := false
	h := auth.NewHTTPHandler(&tokMock{
		ClearFunc: func() error { cleared = true; return nil },
	}, zerolog.Nop())

	rec := serve(h, "/oauth?logout=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cleared)
	assert.False(t, decodeStatus(t, rec).Authenticated)
}
