// Package toolkit implements the tool capability set consumed by the
// execution engine. Each tool kind has exactly one implementation; the
// engine dispatches by kind through a Set rather than matching on
// strings at call sites.
package toolkit

import (
	"context"

	"github.com/user/campaignforge/internal/types"
)

// Tool defines the interface for one generative/analysis capability.
type Tool interface {
	Kind() types.ToolKind
	Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error)
}

// Set holds registered tools keyed by kind.
type Set struct {
	tools map[types.ToolKind]Tool
}

// NewSet creates an empty tool set.
func NewSet() *Set {
	return &Set{tools: make(map[types.ToolKind]Tool)}
}

// Register adds a tool to the set, replacing any existing tool of the
// same kind.
func (s *Set) Register(t Tool) {
	s.tools[t.Kind()] = t
}

// Get returns the tool for the given kind.
func (s *Set) Get(kind types.ToolKind) (Tool, bool) {
	t, ok := s.tools[kind]
	return t, ok
}

// Kinds returns the registered tool kinds.
func (s *Set) Kinds() []types.ToolKind {
	out := make([]types.ToolKind, 0, len(s.tools))
	for k := range s.tools {
		out = append(out, k)
	}
	return out
}
