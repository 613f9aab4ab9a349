package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// pastLimit caps the visit history shown in the portal.
const pastLimit = 5

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Portal returns the patient's profile with upcoming visits (soonest first)
// and the most recent past visits.
func (s *Service) Portal(ctx context.Context, userID uuid.UUID) (*Portal, error) {
	p, err := s.repo.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now().Format("2006-01-02")
	upcoming, err := s.repo.Upcoming(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	past, err := s.repo.Past(ctx, userID, today, pastLimit)
	if err != nil {
		return nil, err
	}

	if upcoming == nil {
		upcoming = []*Visit{}
	}
	if past == nil {
		past = []*Visit{}
	}
	return &Portal{Profile: p, Upcoming: upcoming, Past: past}, nil
}
