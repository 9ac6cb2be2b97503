package repository

import (
	"context"

	"github.com/alexanderramin/prepdesk/internal/domain"
)

// ErrNotFound is returned (wrapped) when a row or slot does not exist.
var ErrNotFound = domain.ErrNotFound

// SlotStore is a durable key-value surface. Values are opaque bytes.
type SlotStore interface {
	// Get returns the stored bytes, or an error wrapping ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// ListKeys returns keys starting with prefix in ascending order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

type ProjectIndexRepo interface {
	Upsert(ctx context.Context, s *domain.ProjectSummary) error
	GetByID(ctx context.Context, id string) (*domain.ProjectSummary, error)
	// List returns summaries most recently modified first.
	List(ctx context.Context) ([]*domain.ProjectSummary, error)
	// Delete removes the summary, or returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error
}
