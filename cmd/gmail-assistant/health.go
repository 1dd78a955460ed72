package main

import (
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

type tokenSource interface {
	OAuthToken() (*oauth2.Token, error)
}

type healthStatus struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	Provider      string `json:"provider"`
}

// newHealthHandler always answers 200 while the process is up. Whether
// Gmail is reachable is reported in the body.
func newHealthHandler(tok tokenSource, provider string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := tok.OAuthToken()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthStatus{
			Status:        "ok",
			Authenticated: err == nil,
			Provider:      provider,
		})
	})
}
