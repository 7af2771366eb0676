package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

type fakeAssistant struct {
	lastSession string
	lastQuery   string
	result      *domain.TurnResult
	err         error
}

func (f *fakeAssistant) Ask(ctx context.Context, sessionID, query string) (*domain.TurnResult, error) {
	f.lastSession = sessionID
	f.lastQuery = query
	return f.result, f.err
}

type fakeInvoker struct {
	lastAction string
	lastArgs   map[string]any
	result     domain.Result
	err        error
}

func (f *fakeInvoker) Invoke(ctx context.Context, action string, args map[string]any) (domain.Result, error) {
	f.lastAction = action
	f.lastArgs = args
	return f.result, f.err
}

var _ ports.Invoker = (*fakeInvoker)(nil)

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestAskTool(t *testing.T) {
	assistant := &fakeAssistant{result: &domain.TurnResult{
		Response: "It is sunny in Miami.",
		Status:   domain.PlanCompleted,
	}}
	s := NewServer(assistant, &fakeInvoker{}, nil, "0.0.0-test")

	result, err := s.handleAsk(context.Background(), callRequest(map[string]any{
		"query":      "weather in Miami",
		"session_id": "abc",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp askResponse
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &resp))
	assert.Equal(t, "It is sunny in Miami.", resp.Response)
	assert.Equal(t, string(domain.PlanCompleted), resp.Status)
	assert.Equal(t, "abc", assistant.lastSession)
	assert.Equal(t, "weather in Miami", assistant.lastQuery)
}

func TestAskToolDefaultsSession(t *testing.T) {
	assistant := &fakeAssistant{result: &domain.TurnResult{Status: domain.PlanCompleted}}
	s := NewServer(assistant, &fakeInvoker{}, nil, "0.0.0-test")

	_, err := s.handleAsk(context.Background(), callRequest(map[string]any{"query": "hi"}))
	require.NoError(t, err)
	assert.Equal(t, "mcp", assistant.lastSession)
}

func TestAskToolMissingQuery(t *testing.T) {
	s := NewServer(&fakeAssistant{}, &fakeInvoker{}, nil, "0.0.0-test")

	result, err := s.handleAsk(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCapabilityTool(t *testing.T) {
	invoker := &fakeInvoker{result: domain.Result{
		Patch:   domain.Patch{"slots": map[string]any{"destination": "Miami"}},
		Snippet: "Miami, FL",
	}}
	s := NewServer(&fakeAssistant{}, invoker, []string{"geocode"}, "0.0.0-test")

	handler := s.capabilityHandler("geocode")
	result, err := handler(context.Background(), callRequest(map[string]any{
		"args": `{"location": "Miami"}`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "geocode", invoker.lastAction)
	assert.Equal(t, "Miami", invoker.lastArgs["location"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &payload))
	assert.Equal(t, "Miami, FL", payload["snippet"])
}

func TestCapabilityToolBadArgs(t *testing.T) {
	s := NewServer(&fakeAssistant{}, &fakeInvoker{}, []string{"geocode"}, "0.0.0-test")

	handler := s.capabilityHandler("geocode")
	result, err := handler(context.Background(), callRequest(map[string]any{"args": "not json"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCapabilityToolInvokerError(t *testing.T) {
	invoker := &fakeInvoker{err: &domain.ToolError{
		Capability: "weather",
		Kind:       domain.FailureUpstream,
		Message:    "upstream is down",
	}}
	s := NewServer(&fakeAssistant{}, invoker, []string{"weather"}, "0.0.0-test")

	handler := s.capabilityHandler("weather")
	result, err := handler(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "upstream is down")
}

func TestAskToolTurnError(t *testing.T) {
	s := NewServer(&fakeAssistant{err: errors.New("store offline")}, &fakeInvoker{}, nil, "0.0.0-test")

	result, err := s.handleAsk(context.Background(), callRequest(map[string]any{"query": "hi"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "store offline")
}
