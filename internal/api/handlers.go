package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"workflow-platform/internal/apperrors"
	"workflow-platform/internal/auth"
	"workflow-platform/internal/engine"
	"workflow-platform/pkg/models"
)

const (
	serviceName    = "workflow-platform"
	serviceVersion = "1.0.0"
)

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WorkflowService is the application surface the REST handlers drive.
type WorkflowService interface {
	Ping(ctx context.Context) error
	CreateWorkflow(ctx context.Context, callerID, name string, def *models.Definition) (*models.Workflow, error)
	UpdateWorkflow(ctx context.Context, callerID, workflowID string, name *string, def *models.Definition) (*models.Workflow, error)
	GetWorkflow(ctx context.Context, callerID, workflowID string) (*models.Workflow, error)
	ListWorkflows(ctx context.Context, callerID string) ([]*models.Workflow, error)
	Execute(ctx context.Context, callerID, workflowID string) (*engine.Result, error)
	ListExecutions(ctx context.Context, callerID, workflowID string, limit int) ([]*models.Execution, error)
	GetExecution(ctx context.Context, callerID, executionID string) (*models.Execution, error)
}

// Server holds the dependencies for the API server.
type Server struct {
	svc WorkflowService
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new Server.
func NewServer(svc WorkflowService) *Server {
	return &Server{svc: svc}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
}

// GetHealth reports liveness and the state of the database.
// (GET /healthz)
func (s *Server) GetHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   serviceName,
		Version:   serviceVersion,
		Checks:    map[string]string{"database": "ok"},
	}
	code := http.StatusOK
	if err := s.svc.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Checks["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

// callerID returns the authenticated identity placed on the request by the
// auth middleware.
func callerID(c echo.Context) (string, error) {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "no caller identity on request")
	}
	return id.ID, nil
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Status      int    `json:"status"`
	Detail      string `json:"detail"`
	Instance    string `json:"instance,omitempty"`
	ExecutionID string `json:"execution_id,omitempty"`
}

// runError is an error raised after a run record was created.
type runError struct {
	executionID string
	err         error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInvalidDefinition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrExecutionFinalized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ProblemHandler returns an echo.HTTPErrorHandler that renders every error
// as an RFC 7807 Problem Details document.
func ProblemHandler(logger Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		problem := ProblemDetails{
			Type:     "about:blank",
			Instance: c.Request().URL.Path,
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			problem.Status = he.Code
			problem.Detail = fmt.Sprint(he.Message)
		} else {
			problem.Status = statusFor(err)
			problem.Detail = err.Error()
		}
		problem.Title = http.StatusText(problem.Status)

		var re *runError
		if errors.As(err, &re) {
			problem.ExecutionID = re.executionID
		}

		if problem.Status >= http.StatusInternalServerError && logger != nil {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"execution_id", problem.ExecutionID,
				"error", err,
			)
		}

		c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(problem.Status)
		} else {
			err = c.JSON(problem.Status, problem)
		}
		if err != nil && logger != nil {
			logger.Warn("failed to write error response", "error", err)
		}
	}
}
