package gservice_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hal9000y/gmail-assistant/internal/gservice"
)

type staticToken struct {
	tok *oauth2.Token
	err error
}

func (s staticToken) OAuthToken() (*oauth2.Token, error) { return s.tok, s.err }

func newTestGmail(t *testing.T, h http.HandlerFunc) *gservice.GMail {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return gservice.NewGmail(
		&oauth2.Config{},
		staticToken{tok: &oauth2.Token{AccessToken: "secret", TokenType: "Bearer"}},
		option.WithEndpoint(srv.URL+"/"),
	)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListMessages(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gmail/v1/users/me/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "in:inbox", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))

		writeJSON(t, w, gmail.ListMessagesResponse{
			Messages:      []*gmail.Message{{Id: "m1"}, {Id: "m2"}},
			NextPageToken: "p3",
		})
	})

	res, err := g.ListMessages(context.Background(), "in:inbox", "p2", 5)
	require.NoError(t, err)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, "p3", res.NextPageToken)
}

func TestGetMessageMetadata(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gmail/v1/users/me/messages/m1", r.URL.Path)
		assert.Equal(t, "metadata", r.URL.Query().Get("format"))
		assert.ElementsMatch(t, []string{"From", "To", "Cc", "Subject", "Date", "Message-ID", "References"}, r.URL.Query()["metadataHeaders"])

		writeJSON(t, w, gmail.Message{Id: "m1", ThreadId: "t1"})
	})

	msg, err := g.GetMessageMetadata(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "t1", msg.ThreadId)
}

func TestGetThread(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gmail/v1/users/me/threads/t1", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("format"))

		writeJSON(t, w, gmail.Thread{Id: "t1", Messages: []*gmail.Message{{Id: "m1"}, {Id: "m2"}}})
	})

	thread, err := g.GetThread(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, thread.Messages, 2)
}

func TestSendMessage(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gmail/v1/users/me/messages/send", r.URL.Path)

		var body gmail.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "t1", body.ThreadId)

		raw, err := base64.URLEncoding.DecodeString(body.Raw)
		require.NoError(t, err)
		assert.Equal(t, "Subject: hi\r\n\r\nbody", string(raw))

		writeJSON(t, w, gmail.Message{Id: "sent1", ThreadId: "t1"})
	})

	sent, err := g.SendMessage(context.Background(), []byte("Subject: hi\r\n\r\nbody"), "t1")
	require.NoError(t, err)
	assert.Equal(t, "sent1", sent.Id)
}

func TestModifyLabels(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gmail/v1/users/me/messages/m1/modify", r.URL.Path)

		var body gmail.ModifyMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body.AddLabelIds)
		assert.Equal(t, []string{gservice.LabelUnread}, body.RemoveLabelIds)

		writeJSON(t, w, gmail.Message{Id: "m1"})
	})

	require.NoError(t, g.ModifyLabels(context.Background(), "m1", nil, []string{gservice.LabelUnread}))
}

func TestGetProfile(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gmail/v1/users/me/profile", r.URL.Path)
		writeJSON(t, w, gmail.Profile{EmailAddress: "me@example.com"})
	})

	p, err := g.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", p.EmailAddress)
}

func TestAPIErrorIsWrapped(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
	})

	_, err := g.GetMessage(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "messages.Get failed")
}

func TestMissingToken(t *testing.T) {
	noTok := gservice.NewGmail(&oauth2.Config{}, staticToken{err: assert.AnError})

	_, err := noTok.GetMessage(context.Background(), "m1")
	require.ErrorIs(t, err, assert.AnError)
}
