// Package patient assembles the patient portal view.
package patient

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("patient not found")

// Profile is the patient's own account data as shown in the portal.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone,omitempty"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Visit is one of the patient's appointments joined with the doctor's
// identity.
type Visit struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	Status          string    `json:"status"`
	Type            string    `json:"type"`
	DoctorFirstName string    `json:"doctor_first_name"`
	DoctorLastName  string    `json:"doctor_last_name"`
	Specialty       string    `json:"specialty"`
}

// Portal is the composite returned by the patient profile endpoint.
type Portal struct {
	Profile  *Profile `json:"profile"`
	Upcoming []*Visit `json:"upcoming_appointments"`
	Past     []*Visit `json:"past_appointments"`
}
