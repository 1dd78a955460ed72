package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

type tok interface {
	AuthorizeCode(ctx context.Context, code, state string) error
	OAuthToken() (*oauth2.Token, error)
	RedirectURL() (string, error)
	Clear() error
}

// Status is the JSON body served for a plain GET of the handler.
type Status struct {
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	AccessToken   string `json:"access_token,omitempty"`
}

// HTTPHandler handles OAuth2 authentication flow via HTTP.
type HTTPHandler struct {
	tok tok
	log zerolog.Logger
}

// NewHTTPHandler creates an HTTP handler for OAuth2 flow.
func NewHTTPHandler(tok tok, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{tok: tok, log: log}
}

// ServeHTTP dispatches on the query:
//
//	?redirect=1      send the user to the consent page
//	?code=..&state=  finish the flow
//	?logout=1        forget the token
//
// Anything else reports the token status.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("redirect") != "" {
		url, err := h.tok.RedirectURL()
		if err != nil {
			h.log.Error().Err(err).Msg("tok.RedirectURL failed")
			http.Error(w, "Unable to start authorization", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	if code := q.Get("code"); code != "" {
		if err := h.tok.AuthorizeCode(r.Context(), code, q.Get("state")); err != nil {
			h.log.Warn().Err(err).Msg("tok.AuthorizeCode failed")
			http.Error(w, "Unable to authorize provided code", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, r.URL.EscapedPath(), http.StatusFound)
		return
	}

	if q.Get("logout") != "" {
		if err := h.tok.Clear(); err != nil {
			h.log.Error().Err(err).Msg("tok.Clear failed")
			http.Error(w, "Unable to clear token", http.StatusInternalServerError)
			return
		}
		writeStatus(w, http.StatusOK, Status{})
		return
	}

	t, err := h.tok.OAuthToken()
	if errors.Is(err, ErrTokenNotSet) {
		writeStatus(w, http.StatusUnauthorized, Status{})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("tok.OAuthToken failed")
		http.Error(w, "Unable to read token", http.StatusInternalServerError)
		return
	}

	st := Status{
		Authenticated: true,
		AccessToken:   maskLeft(t.AccessToken),
	}
	if !t.Expiry.IsZero() {
		st.ExpiresAt = t.Expiry.Format(time.RFC3339)
	}
	writeStatus(w, http.StatusOK, st)
}

func writeStatus(w http.ResponseWriter, code int, st Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(st)
}

// maskLeft keeps only the last four characters of s visible.
func maskLeft(s string) string {
	rs := []rune(s)
	for i := 0; i < len(rs)-4; i++ {
		rs[i] = 'X'
	}
	return string(rs)
}
