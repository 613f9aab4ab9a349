// Package review stores patient reviews and their listing per doctor.
package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("review not found")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// Review maps to the review table, joined with the reviewer's name when
// listed.
type Review struct {
	ID               uuid.UUID `db:"id" json:"id"`
	DoctorID         uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	Rating           int       `db:"rating" json:"rating"`
	Comment          *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	PatientFirstName string    `json:"patient_first_name,omitempty"`
	PatientLastName  string    `json:"patient_last_name,omitempty"`
}
