package price

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("price not found")

// Store holds prices keyed by a random UUID. Implementations must be safe for
// concurrent use; ErrNotFound is the only expected failure.
type Store interface {
	Create(ctx context.Context, value uint64) (uuid.UUID, error)
	List(ctx context.Context) ([]uint64, error)
	Get(ctx context.Context, id uuid.UUID) (uint64, error)
	Update(ctx context.Context, id uuid.UUID, value uint64) error
	Delete(ctx context.Context, id uuid.UUID) error
	Len(ctx context.Context) int
	Ping(ctx context.Context) error
}
