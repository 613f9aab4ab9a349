package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabib/tabib/internal/platform/cache"
)

// searchTTL bounds how stale a cached doctor listing can get.
const searchTTL = 60 * time.Second

const searchGenKey = "doctors:search:gen"

// PhoneUpdater updates the phone number on the users row. Implemented by the
// identity repository; the profile form edits both tables.
type PhoneUpdater interface {
	UpdatePhone(ctx context.Context, id uuid.UUID, phone *string) error
}

type UpdateInput struct {
	Specialty       string   `json:"specialty"`
	Address         *string  `json:"address,omitempty"`
	City            *string  `json:"city,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	ConsultationFee *float64 `json:"consultation_fee,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
}

type Service struct {
	repo   Repository
	users  PhoneUpdater
	cache  cache.Cache
	now    func() time.Time
}

func NewService(repo Repository, users PhoneUpdater, c cache.Cache) *Service {
	return &Service{repo: repo, users: users, cache: c, now: time.Now}
}

// Search lists doctors matching the name/specialty and city filters, with
// their review aggregate. Results are served cache-aside: cached entries are
// keyed under a generation token so a single write invalidates all filters.
func (s *Service) Search(ctx context.Context, search, city string) ([]*Card, error) {
	search = strings.TrimSpace(search)
	city = strings.TrimSpace(city)

	key := s.searchKey(ctx, search, city)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cards []*Card
		if json.Unmarshal(data, &cards) == nil {
			return cards, nil
		}
	}

	cards, err := s.repo.Search(ctx, search, city)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []*Card{}
	}

	if data, err := json.Marshal(cards); err == nil {
		s.cache.Set(ctx, key, data, searchTTL)
	}
	return cards, nil
}

func (s *Service) searchKey(ctx context.Context, search, city string) string {
	gen, ok, err := s.cache.Get(ctx, searchGenKey)
	if err != nil || !ok {
		gen = []byte(uuid.New().String())
		s.cache.Set(ctx, searchGenKey, gen, 24*time.Hour)
	}
	return fmt.Sprintf("doctors:search:%s:%s|%s", gen, search, city)
}

// InvalidateSearch drops all cached search listings by rotating the
// generation token. Called after profile updates and new reviews.
func (s *Service) InvalidateSearch(ctx context.Context) {
	s.cache.Set(ctx, searchGenKey, []byte(uuid.New().String()), 24*time.Hour)
}

// Get returns one doctor's public card.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Card, error) {
	return s.repo.CardByID(ctx, id)
}

// Dashboard assembles the authenticated doctor's home view: the profile,
// today's schedule, the next upcoming visits and the latest reviews.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	card, err := s.repo.CardByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	today := s.now().Format("2006-01-02")
	todayVisits, err := s.repo.DayAppointments(ctx, p.ID, today)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.UpcomingAppointments(ctx, p.ID, today, 10)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.RecentReviews(ctx, p.ID, 5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Profile:       p,
		FirstName:     card.FirstName,
		LastName:      card.LastName,
		PhotoURL:      card.PhotoURL,
		Today:         todayVisits,
		Upcoming:      upcoming,
		RecentReviews: reviews,
	}, nil
}

// UpdateProfile applies the profile form. The phone field lives on the users
// row; everything else on doctor_profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateInput) (*Profile, error) {
	if strings.TrimSpace(in.Specialty) == "" {
		return nil, fmt.Errorf("specialty is required")
	}
	if in.ConsultationFee != nil && *in.ConsultationFee < 0 {
		return nil, fmt.Errorf("consultation_fee cannot be negative")
	}

	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.Specialty = strings.TrimSpace(in.Specialty)
	p.Address = in.Address
	p.City = in.City
	p.Bio = in.Bio
	p.ConsultationFee = in.ConsultationFee

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if in.Phone != nil {
		if err := s.users.UpdatePhone(ctx, userID, in.Phone); err != nil {
			return nil, err
		}
	}

	s.InvalidateSearch(ctx)
	return p, nil
}
