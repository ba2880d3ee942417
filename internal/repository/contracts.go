package repository

import (
	"context"

	"github.com/maxviazov/openapi-skeleton/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PetFilter narrows a pet listing. Zero values mean no filtering.
type PetFilter struct {
	Species string
}

// PetRepository is the read side every data source implements.
// List returns the full, ordered row collection; paging happens above it.
type PetRepository interface {
	List(ctx context.Context, f PetFilter) ([]model.Pet, error)
	GetByID(ctx context.Context, id int64) (model.Pet, error)
}

// Source bundles what the server needs from an opened data source.
type Source struct {
	Pets   PetRepository
	Pinger Pinger
	Close  func()
}
