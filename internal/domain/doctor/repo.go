package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, specialty, license string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	ProfileIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, p *Profile) error
	Search(ctx context.Context, search, city string) ([]*Card, error)
	CardByID(ctx context.Context, id uuid.UUID) (*Card, error)
	DayAppointments(ctx context.Context, profileID uuid.UUID, date string) ([]*VisitSummary, error)
	UpcomingAppointments(ctx context.Context, profileID uuid.UUID, after string, limit int) ([]*VisitSummary, error)
	RecentReviews(ctx context.Context, profileID uuid.UUID, limit int) ([]*ReviewSummary, error)
}
