// Package booking manages appointments: creation against open slots, status
// transitions and the doctor's consultation-request inbox.
package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrSlotTaken         = errors.New("this time slot is already booked")
	ErrNotAllowed        = errors.New("not allowed to modify this appointment")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is an appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// transitions is the allowed status graph. Cancelled and completed are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Type is the consultation mode.
type Type string

const (
	TypeInPerson Type = "in-person"
	TypeVideo    Type = "video"
)

func (t Type) Valid() bool {
	return t == TypeInPerson || t == TypeVideo
}

// Appointment maps to the appointment table. DoctorID references the doctor
// profile, PatientID the users row.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Date      string    `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	Status    Status    `db:"status" json:"status"`
	Type      Type      `db:"type" json:"type"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DoctorView is an appointment as listed for its doctor, joined with the
// patient's identity.
type DoctorView struct {
	Appointment
	PatientFirstName string  `json:"patient_first_name"`
	PatientLastName  string  `json:"patient_last_name"`
	PatientPhone     *string `json:"patient_phone,omitempty"`
	PatientPhotoURL  *string `json:"patient_photo_url,omitempty"`
}

// PatientView is an appointment as listed for its patient, joined with the
// doctor's identity, specialty and fee.
type PatientView struct {
	Appointment
	DoctorFirstName string   `json:"doctor_first_name"`
	DoctorLastName  string   `json:"doctor_last_name"`
	Specialty       string   `json:"specialty"`
	ConsultationFee *float64 `json:"consultation_fee,omitempty"`
	DoctorPhotoURL  *string  `json:"doctor_photo_url,omitempty"`
}
