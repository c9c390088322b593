// Package api contains the HTTP handlers for the workflow service
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListWorkflows returns the workflows owned by the caller
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	workflows, err := s.svc.ListWorkflows(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, workflows)
}

// CreateWorkflow saves a new workflow owned by the caller
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var body CreateWorkflowJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	var name string
	if body.Name != nil {
		name = *body.Name
	}

	workflow, err := s.svc.CreateWorkflow(c.Request().Context(), caller, name, body.Definition)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, workflow)
}

// GetWorkflow returns one workflow
// (GET /api/v1/workflows/{workflowId})
func (s *Server) GetWorkflow(c echo.Context, workflowId string) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	workflow, err := s.svc.GetWorkflow(c.Request().Context(), caller, workflowId)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, workflow)
}

// UpdateWorkflow changes the name and/or definition of a workflow
// (PUT /api/v1/workflows/{workflowId})
func (s *Server) UpdateWorkflow(c echo.Context, workflowId string) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var body UpdateWorkflowJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	workflow, err := s.svc.UpdateWorkflow(c.Request().Context(), caller, workflowId, body.Name, body.Definition)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, workflow)
}
