package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-platform/internal/apperrors"
)

// ExecuteWorkflow runs a workflow once and reports the final status.
// A run that was accepted but failed is still a 200; only a failure to
// record the run turns into a 500.
// (POST /api/v1/execute/{workflowId})
func (s *Server) ExecuteWorkflow(c echo.Context, workflowId string) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	result, err := s.svc.Execute(c.Request().Context(), caller, workflowId)
	if result == nil {
		if err == nil {
			err = errors.New("executor returned no result")
		}
		return err
	}
	if err != nil && errors.Is(err, apperrors.ErrPersistence) {
		return &runError{executionID: result.ExecutionID, err: err}
	}

	resp := ExecuteResponse{
		ExecutionId: result.ExecutionID,
		Status:      string(result.Status),
	}
	if err != nil {
		msg := err.Error()
		resp.Error = &msg
	}
	return c.JSON(http.StatusOK, resp)
}

// ListExecutions returns the run history of a workflow
// (GET /api/v1/workflows/{workflowId}/executions)
func (s *Server) ListExecutions(c echo.Context, workflowId string, params ListExecutionsParams) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	limit := 0
	if params.Limit != nil {
		if *params.Limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must not be negative")
		}
		limit = *params.Limit
	}

	executions, err := s.svc.ListExecutions(c.Request().Context(), caller, workflowId, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, executions)
}

// GetExecution returns one execution record
// (GET /api/v1/executions/{executionId})
func (s *Server) GetExecution(c echo.Context, executionId string) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	execution, err := s.svc.GetExecution(c.Request().Context(), caller, executionId)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, execution)
}
