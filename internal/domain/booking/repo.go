package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts the appointment. The partial unique index on active
	// slots makes the conflict check atomic; a duplicate surfaces as
	// ErrSlotTaken.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*DoctorView, int, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientView, int, error)
	PendingForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorView, error)
}
