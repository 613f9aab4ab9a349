package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabib/tabib/internal/domain/doctor"
	"github.com/tabib/tabib/internal/domain/scheduling"
	"github.com/tabib/tabib/internal/platform/auth"
)

// doctorDirectory resolves doctor identities. Implemented by the doctor
// repository.
type doctorDirectory interface {
	ProfileIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookInput struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	Type      Type      `json:"type"`
	Notes     *string   `json:"notes,omitempty"`
}

// ListResult is the role-branched appointment listing: exactly one of the
// two slices is set, according to the caller's role.
type ListResult struct {
	AsDoctor  []*DoctorView
	AsPatient []*PatientView
	Total     int
}

type Service struct {
	repo    Repository
	doctors doctorDirectory
}

func NewService(repo Repository, doctors doctorDirectory) *Service {
	return &Service{repo: repo, doctors: doctors}
}

// Book creates a pending appointment for the patient. The slot conflict is
// enforced by the storage layer in the same statement as the insert, so two
// concurrent requests for one slot cannot both succeed.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, in BookInput) (*Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if _, err := time.Parse(scheduling.DateLayout, in.Date); err != nil {
		return nil, fmt.Errorf("date must be formatted %s", scheduling.DateLayout)
	}
	if !scheduling.ValidClock(in.StartTime) {
		return nil, fmt.Errorf("start_time must be formatted HH:MM")
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("type must be %q or %q", TypeInPerson, TypeVideo)
	}

	ok, err := s.doctors.Exists(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	a := &Appointment{
		DoctorID:  in.DoctorID,
		PatientID: patientID,
		Date:      in.Date,
		StartTime: in.StartTime,
		Status:    StatusPending,
		Type:      in.Type,
		Notes:     in.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns the caller's appointments, joined with the counterpart's
// identity. Dispatches once on the authenticated role.
func (s *Service) List(ctx context.Context, ident auth.Identity, limit, offset int) (*ListResult, error) {
	switch ident.Role {
	case auth.RoleDoctor:
		doctorID, err := s.profileID(ctx, ident.UserID)
		if err != nil {
			return nil, err
		}
		items, total, err := s.repo.ListForDoctor(ctx, doctorID, limit, offset)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*DoctorView{}
		}
		return &ListResult{AsDoctor: items, Total: total}, nil
	default:
		items, total, err := s.repo.ListForPatient(ctx, ident.UserID, limit, offset)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*PatientView{}
		}
		return &ListResult{AsPatient: items, Total: total}, nil
	}
}

// UpdateStatus moves the appointment to the requested status. The actor must
// be the appointment's patient or its doctor, and the move must be allowed
// by the transition table.
func (s *Service) UpdateStatus(ctx context.Context, ident auth.Identity, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, ident, a); err != nil {
		return nil, err
	}
	if !a.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

// Remove hard-deletes the appointment. Same ownership rule as UpdateStatus.
func (s *Service) Remove(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, ident, a); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ConsultationRequests lists the doctor's pending appointments.
func (s *Service) ConsultationRequests(ctx context.Context, doctorUserID uuid.UUID) ([]*DoctorView, error) {
	doctorID, err := s.profileID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.PendingForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*DoctorView{}
	}
	return items, nil
}

// ResolveRequest accepts or rejects one pending consultation request owned
// by the doctor. Accept confirms it, reject cancels it.
func (s *Service) ResolveRequest(ctx context.Context, doctorUserID, id uuid.UUID, action string) (*Appointment, error) {
	var target Status
	switch action {
	case "accept":
		target = StatusConfirmed
	case "reject":
		target = StatusCancelled
	default:
		return nil, fmt.Errorf("action must be \"accept\" or \"reject\"")
	}

	doctorID, err := s.profileID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != doctorID {
		return nil, ErrNotAllowed
	}
	if a.Status != StatusPending {
		return nil, fmt.Errorf("%w: request is %s, not pending", ErrInvalidTransition, a.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	a.Status = target
	return a, nil
}

func (s *Service) profileID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	id, err := s.doctors.ProfileIDByUser(ctx, userID)
	if errors.Is(err, doctor.ErrNotFound) {
		return uuid.Nil, ErrDoctorNotFound
	}
	return id, err
}

// authorize allows the appointment's patient and its owning doctor.
func (s *Service) authorize(ctx context.Context, ident auth.Identity, a *Appointment) error {
	if ident.Role == auth.RoleDoctor {
		doctorID, err := s.profileID(ctx, ident.UserID)
		if err != nil {
			return err
		}
		if a.DoctorID != doctorID {
			return ErrNotAllowed
		}
		return nil
	}
	if a.PatientID != ident.UserID {
		return ErrNotAllowed
	}
	return nil
}
