package engine

import (
	"fmt"

	"workflow-platform/internal/apperrors"
)

// BrokenEdgeError reports an edge whose target is not a node of the definition.
type BrokenEdgeError struct {
	Source string
	Target string
}

func (e *BrokenEdgeError) Error() string {
	return fmt.Sprintf("edge from node %q targets unknown node %q", e.Source, e.Target)
}

// Is makes BrokenEdgeError match apperrors.ErrBrokenEdge.
func (e *BrokenEdgeError) Is(target error) bool {
	return target == apperrors.ErrBrokenEdge
}

func invalidDefinition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidDefinition, fmt.Sprintf(format, args...))
}
