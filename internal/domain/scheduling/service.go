package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabib/tabib/internal/domain/doctor"
)

// BookedWindowMonths is how far ahead the resolver reports occupied slots.
const BookedWindowMonths = 3

// ProfileDirectory resolves doctor identities. Implemented by the doctor
// repository.
type ProfileDirectory interface {
	ProfileIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TxRunner runs fn atomically; the replace-all schedule update needs the
// delete and the inserts to commit together.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type RuleInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Service struct {
	repo    Repository
	doctors ProfileDirectory
	runTx   TxRunner
	now     func() time.Time
}

func NewService(repo Repository, doctors ProfileDirectory, runTx TxRunner) *Service {
	return &Service{repo: repo, doctors: doctors, runTx: runTx, now: time.Now}
}

// Availability returns a doctor's weekly rules together with every occupied
// slot from today through the booking horizon.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID) (*Availability, error) {
	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rules, err := s.repo.RulesByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := now.Format(DateLayout)
	to := now.AddDate(0, BookedWindowMonths, 0).Format(DateLayout)
	booked, err := s.repo.BookedSlots(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	if rules == nil {
		rules = []*Rule{}
	}
	if booked == nil {
		booked = []*BookedSlot{}
	}
	return &Availability{Rules: rules, Booked: booked}, nil
}

// OpenSlots enumerates the bookable start times for one date.
func (s *Service) OpenSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("date must be formatted %s", DateLayout)
	}

	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rules, err := s.repo.RulesByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	bookedSlots, err := s.repo.BookedSlots(ctx, doctorID, date, date)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]bool, len(bookedSlots))
	for _, b := range bookedSlots {
		booked[b.StartTime] = true
	}
	return SlotsForDate(rules, date, booked, s.now()), nil
}

// UpdateRules replaces the acting doctor's whole weekly schedule.
func (s *Service) UpdateRules(ctx context.Context, doctorUserID uuid.UUID, inputs []RuleInput) ([]*Rule, error) {
	doctorID, err := s.doctors.ProfileIDByUser(ctx, doctorUserID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rules := make([]*Rule, 0, len(inputs))
	for _, in := range inputs {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: day_of_week must be 0..6", ErrInvalidRule)
		}
		if !ValidClock(in.StartTime) || !ValidClock(in.EndTime) {
			return nil, fmt.Errorf("%w: times must be formatted HH:MM", ErrInvalidRule)
		}
		if in.StartTime >= in.EndTime {
			return nil, fmt.Errorf("%w: start_time must precede end_time", ErrInvalidRule)
		}
		rules = append(rules, &Rule{DayOfWeek: in.DayOfWeek, StartTime: in.StartTime, EndTime: in.EndTime})
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceRules(ctx, doctorID, rules)
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}
