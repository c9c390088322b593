package mcp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-platform/internal/auth"
	"workflow-platform/internal/engine"
	"workflow-platform/internal/logging"
	"workflow-platform/internal/repository"
	"workflow-platform/internal/services"
	"workflow-platform/pkg/models"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	repo := repository.NewInMemoryStore()
	logger := logging.NewNop()
	eng := engine.New(repo, repo, engine.NewRegistry(), logger, nil)
	svc := services.NewWorkflowService(repo, eng, logger)

	wf := &models.Workflow{
		OwnerID: "alice",
		Name:    "tooling",
		Definition: models.Definition{
			Nodes: []models.Node{
				{ID: "in", Type: models.NodeTypeInput},
				{ID: "out", Type: models.NodeTypeOutput},
			},
			Edges: []models.Edge{{Source: "in", Target: "out"}},
		},
	}
	require.NoError(t, repo.CreateWorkflow(context.Background(), wf))
	return NewServer(svc), wf.ID
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func as(caller string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{ID: caller})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestExecuteThenInspect(t *testing.T) {
	s, workflowID := newTestServer(t)

	result, err := s.handleExecuteWorkflow(as("alice"), callRequest("execute_workflow", map[string]interface{}{
		"workflow_id": workflowID,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var out executeOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, string(models.ExecutionStatusCompleted), out.Status)
	assert.Equal(t, 2, out.Steps)

	result, err = s.handleGetExecution(as("alice"), callRequest("get_execution", map[string]interface{}{
		"execution_id": out.ExecutionID,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var exec models.Execution
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &exec))
	assert.Equal(t, workflowID, exec.WorkflowID)
	assert.Contains(t, exec.Log, engine.FinishedMessage)

	result, err = s.handleListExecutions(as("alice"), callRequest("list_executions", map[string]interface{}{
		"workflow_id": workflowID,
		"limit":       float64(5),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var history []models.Execution
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &history))
	assert.Len(t, history, 1)
}

func TestToolErrors(t *testing.T) {
	s, workflowID := newTestServer(t)

	tests := []struct {
		name    string
		ctx     context.Context
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		want    string
	}{
		{"no identity", context.Background(), s.handleExecuteWorkflow, map[string]interface{}{"workflow_id": workflowID}, "Unauthenticated"},
		{"missing workflow_id", as("alice"), s.handleExecuteWorkflow, map[string]interface{}{}, "workflow_id"},
		{"not owner", as("bob"), s.handleExecuteWorkflow, map[string]interface{}{"workflow_id": workflowID}, "forbidden"},
		{"unknown workflow", as("alice"), s.handleExecuteWorkflow, map[string]interface{}{"workflow_id": "nope"}, "not found"},
		{"bad limit", as("alice"), s.handleListExecutions, map[string]interface{}{"workflow_id": workflowID, "limit": "ten"}, "limit"},
		{"missing execution_id", as("alice"), s.handleGetExecution, map[string]interface{}{}, "execution_id"},
		{"unknown execution", as("alice"), s.handleGetExecution, map[string]interface{}{"execution_id": "nope"}, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(tt.ctx, callRequest("tool", tt.args))
			require.NoError(t, err, "tool failures are results, not protocol errors")
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestWithCaller(t *testing.T) {
	req := httptest.NewRequest("POST", "/mcp/message", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: "alice"}))

	ctx := withCaller(context.Background(), req)
	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", id.ID)

	ctx = withCaller(context.Background(), httptest.NewRequest("POST", "/mcp/message", nil))
	_, ok = auth.FromContext(ctx)
	assert.False(t, ok)
}
