// Package ident produces identifiers for workspaces, notes, items and
// outline blocks.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a value never returned before in this process.
type Generator interface {
	Next() string
}

// UUIDGenerator draws random (v4) UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator returns the production generator.
func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) Next() string { return uuid.NewString() }

// Sequence returns prefix-1, prefix-2, ... and is safe for concurrent use.
// Tests use it for readable, deterministic ids.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) Next() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
