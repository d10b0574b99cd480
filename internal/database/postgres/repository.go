package repository

import (
	"context"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
)

// EventRepository persists the whole Event aggregate. Update is optimistic:
// it succeeds only when the stored version matches event.Version and bumps
// the version on success, returning entity.ErrConcurrentUpdate otherwise.
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id string) error

	// Retention
	GetEndedBefore(ctx context.Context, cutoff time.Time) ([]*entity.Event, error)
}

// EventCache is a read-through cache for event lookups. A nil-value, nil-error
// Get means a miss.
type EventCache interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
	Set(ctx context.Context, event *entity.Event) error
	Invalidate(ctx context.Context, id string) error
}
