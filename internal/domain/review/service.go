package review

import (
	"context"

	"github.com/google/uuid"
)

// doctorDirectory verifies the reviewed doctor exists. Implemented by the
// doctor repository.
type doctorDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SearchInvalidator drops the cached doctor listings, whose rating aggregate
// a new review changes. Implemented by the doctor service.
type SearchInvalidator interface {
	InvalidateSearch(ctx context.Context)
}

type CreateInput struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

type Service struct {
	repo    Repository
	doctors doctorDirectory
	search  SearchInvalidator
}

func NewService(repo Repository, doctors doctorDirectory, search SearchInvalidator) *Service {
	return &Service{repo: repo, doctors: doctors, search: search}
}

// Create stores a patient's review of a doctor.
func (s *Service) Create(ctx context.Context, patientID, doctorID uuid.UUID, in CreateInput) (*Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	rv := &Review{DoctorID: doctorID, PatientID: patientID, Rating: in.Rating, Comment: in.Comment}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.search.InvalidateSearch(ctx)
	return rv, nil
}

// ListByDoctor returns a doctor's reviews, most recent first.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Review, error) {
	ok, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	reviews, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return reviews, nil
}
