package models

import (
	"time"
)

// NodeType is the declared kind of a step in a workflow definition.
type NodeType string

const (
	NodeTypeInput   NodeType = "input"
	NodeTypeOutput  NodeType = "output"
	NodeTypeDefault NodeType = "default"
	NodeTypeSlack   NodeType = "slack"
)

// Workflow is a persisted, user-authored graph of steps.
type Workflow struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	Definition Definition `json:"definition"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Definition is the designer document: a set of nodes and the edges
// between them. Fields the engine does not use (positions, styling) are
// kept only as far as they are listed here.
type Definition struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is one step of a definition.
type Node struct {
	ID       string                 `json:"id" yaml:"id"`
	Type     NodeType               `json:"type,omitempty" yaml:"type,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Position *Position              `json:"position,omitempty" yaml:"position,omitempty"`
}

// Position is the canvas location of a node.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Edge is a directed link from one node to its successor.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}
