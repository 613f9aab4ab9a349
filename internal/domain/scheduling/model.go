// Package scheduling holds the weekly availability rules and turns them into
// bookable 30-minute slots.
package scheduling

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("doctor not found")
	ErrInvalidRule = errors.New("invalid availability rule")
)

// Rule maps to the availability_rule table. DayOfWeek uses 0 for Sunday.
// Times are zero-padded wall-clock strings so their lexicographic order is
// their temporal order.
type Rule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
}

// BookedSlot is an occupied slot within the resolver window, with the
// patient's display name for the doctor's calendar.
type BookedSlot struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	Type        string `json:"type"`
	PatientName string `json:"patient_name"`
}

// Availability is the resolver output: the raw weekly rules plus every
// occupied slot from today through the booking horizon.
type Availability struct {
	Rules  []*Rule       `json:"availability"`
	Booked []*BookedSlot `json:"booked_slots"`
}
