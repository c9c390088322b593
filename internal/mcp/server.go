package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workflow-platform/internal/apperrors"
	"workflow-platform/internal/auth"
	"workflow-platform/internal/engine"
	"workflow-platform/pkg/models"
)

// WorkflowService is the part of the application surface exposed as tools.
type WorkflowService interface {
	Execute(ctx context.Context, callerID, workflowID string) (*engine.Result, error)
	ListExecutions(ctx context.Context, callerID, workflowID string, limit int) ([]*models.Execution, error)
	GetExecution(ctx context.Context, callerID, executionID string) (*models.Execution, error)
}

type Server struct {
	mcpServer *server.MCPServer
	svc       WorkflowService
}

func NewServer(svc WorkflowService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Platform",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		svc: svc,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"execute_workflow",
			mcp.WithDescription("Run a workflow once and return the execution id and final status"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
		),
		s.handleExecuteWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_executions",
			mcp.WithDescription("List the run history of a workflow, latest first"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of executions to return")),
		),
		s.handleListExecutions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_execution",
			mcp.WithDescription("Get one execution record including its log"),
			mcp.WithString("execution_id", mcp.Required(), mcp.Description("The ID of the execution")),
		),
		s.handleGetExecution,
	)
}

// executeOutput is the tool result of execute_workflow.
type executeOutput struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
	Steps       int    `json:"steps"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleExecuteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caller, ok := auth.FromContext(ctx)
	if !ok {
		return mcp.NewToolResultError("Unauthenticated: no caller identity"), nil
	}

	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	workflowID, ok := args["workflow_id"].(string)
	if !ok || workflowID == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow_id"), nil
	}

	result, err := s.svc.Execute(ctx, caller.ID, workflowID)
	if result == nil || (err != nil && errors.Is(err, apperrors.ErrPersistence)) {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to execute workflow: %v", err)), nil
	}

	out := executeOutput{
		ExecutionID: result.ExecutionID,
		Status:      string(result.Status),
		Steps:       result.Steps,
	}
	if err != nil {
		out.Error = err.Error()
	}

	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListExecutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caller, ok := auth.FromContext(ctx)
	if !ok {
		return mcp.NewToolResultError("Unauthenticated: no caller identity"), nil
	}

	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	workflowID, ok := args["workflow_id"].(string)
	if !ok || workflowID == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow_id"), nil
	}

	limit := 0
	if raw, present := args["limit"]; present {
		n, ok := raw.(float64)
		if !ok || n < 0 {
			return mcp.NewToolResultError("Invalid parameter: limit must be a non-negative number"), nil
		}
		limit = int(n)
	}

	executions, err := s.svc.ListExecutions(ctx, caller.ID, workflowID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list executions: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(executions)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetExecution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caller, ok := auth.FromContext(ctx)
	if !ok {
		return mcp.NewToolResultError("Unauthenticated: no caller identity"), nil
	}

	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	executionID, ok := args["execution_id"].(string)
	if !ok || executionID == "" {
		return mcp.NewToolResultError("Missing required parameter: execution_id"), nil
	}

	execution, err := s.svc.GetExecution(ctx, caller.ID, executionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get execution: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(execution)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// withCaller copies the identity resolved by the auth middleware onto the
// context tool handlers run with.
func withCaller(ctx context.Context, r *http.Request) context.Context {
	if id, ok := auth.FromContext(r.Context()); ok {
		return auth.WithIdentity(ctx, id)
	}
	return ctx
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer,
		server.WithStaticBasePath("/mcp"),
		server.WithSSEContextFunc(withCaller),
	)

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
