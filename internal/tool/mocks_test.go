package tool_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-assistant/internal/assistant"
	"github.com/hal9000y/gmail-assistant/internal/llm"
	"github.com/hal9000y/gmail-assistant/internal/mailbox"
	"github.com/hal9000y/gmail-assistant/internal/metrics"
	"github.com/hal9000y/gmail-assistant/internal/tool"
)

type mailSvcMock struct {
	ListMessagesFunc func(ctx context.Context, query, pageToken string, maxResults int64) (mailbox.Page, error)
	GetMessageFunc   func(ctx context.Context, msgID string) (mailbox.Message, error)
	GetThreadFunc    func(ctx context.Context, threadID string) ([]mailbox.Message, error)
	SendFunc         func(ctx context.Context, out mailbox.Outgoing) (mailbox.Sent, error)
	MarkReadFunc     func(ctx context.Context, msgID string) error
}

func (m *mailSvcMock) ListMessages(ctx context.Context, query, pageToken string, maxResults int64) (mailbox.Page, error) {
	return m.ListMessagesFunc(ctx, query, pageToken, maxResults)
}

func (m *mailSvcMock) GetMessage(ctx context.Context, msgID string) (mailbox.Message, error) {
	return m.GetMessageFunc(ctx, msgID)
}

func (m *mailSvcMock) GetThread(ctx context.Context, threadID string) ([]mailbox.Message, error) {
	return m.GetThreadFunc(ctx, threadID)
}

func (m *mailSvcMock) Send(ctx context.Context, out mailbox.Outgoing) (mailbox.Sent, error) {
	return m.SendFunc(ctx, out)
}

func (m *mailSvcMock) MarkRead(ctx context.Context, msgID string) error {
	return m.MarkReadFunc(ctx, msgID)
}

type providerMock struct {
	CompleteFunc func(ctx context.Context, req *llm.Request) (string, error)

	mu    sync.Mutex
	calls []*llm.Request
}

func (m *providerMock) Name() string { return "mock" }

func (m *providerMock) Complete(ctx context.Context, req *llm.Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	return m.CompleteFunc(ctx, req)
}

func (m *providerMock) Calls() []*llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*llm.Request(nil), m.calls...)
}

func answer(text string) *providerMock {
	return &providerMock{CompleteFunc: func(context.Context, *llm.Request) (string, error) { return text, nil }}
}

func newMessage(id, subject, body string) mailbox.Message {
	return mailbox.Message{
		Summary: mailbox.Summary{
			ID:        id,
			ThreadID:  "t-" + id,
			Timestamp: "Mon, 15 Sep 2025 10:00:00 +0000",
			From:      mailbox.Address{Name: "Test User", Email: "test+" + id + "@test.com"},
			Subject:   subject,
		},
		Body: body,
	}
}

// connect serves svc and an assistant backed by p over in-memory transports.
func connect(t *testing.T, svc *mailSvcMock, p llm.Provider) *mcp.ClientSession {
	t.Helper()

	if svc == nil {
		svc = &mailSvcMock{}
	}
	if p == nil {
		p = answer("")
	}

	server := tool.NewServer(svc, assistant.New(p, metrics.New(), zerolog.Nop()))
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func call(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(result *mcp.CallToolResult) string {
	return result.Content[0].(*mcp.TextContent).Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", resultText(result))

	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), &out))
	return out
}

func requireToolError(t *testing.T, result *mcp.CallToolResult, contains string) {
	t.Helper()
	require.True(t, result.IsError, "Result should indicate error")
	require.Contains(t, resultText(result), contains)
}
