// Package apperrors holds the sentinel errors shared by the engine, the
// stores and the inbound surfaces.
package apperrors

import (
	"errors"
)

var (
	// Lookup and authorization
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Definition errors
	ErrInvalidDefinition = errors.New("invalid workflow definition")
	ErrBrokenEdge        = errors.New("edge targets a non-existent node")

	// Side effects and persistence
	ErrIntegration        = errors.New("integration failure")
	ErrPersistence        = errors.New("persistence failure")
	ErrExecutionFinalized = errors.New("execution already finalized")

	// Request errors
	ErrInvalidArgument = errors.New("invalid argument")
)
