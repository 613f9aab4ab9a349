package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// Upcoming returns visits on or after date, soonest first.
	Upcoming(ctx context.Context, userID uuid.UUID, date string) ([]*Visit, error)
	// Past returns visits before date, most recent first, capped at limit.
	Past(ctx context.Context, userID uuid.UUID, date string, limit int) ([]*Visit, error)
}
