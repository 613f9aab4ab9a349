// Package doctor holds doctor profiles, the public search listing and the
// doctor dashboard.
package doctor

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("doctor not found")

// Profile maps to the doctor_profile table.
type Profile struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	Specialty       string    `db:"specialty" json:"specialty"`
	License         string    `db:"license" json:"license"`
	Address         *string   `db:"address" json:"address,omitempty"`
	City            *string   `db:"city" json:"city,omitempty"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	ConsultationFee *float64  `db:"consultation_fee" json:"consultation_fee,omitempty"`
}

// Card is one row of the public doctor listing: the profile joined with the
// user's identity and the review aggregate. Rating is 0 when unreviewed.
type Card struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Specialty       string    `json:"specialty"`
	Address         *string   `json:"address,omitempty"`
	City            *string   `json:"city,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ConsultationFee *float64  `json:"consultation_fee,omitempty"`
	PhotoURL        *string   `json:"photo_url,omitempty"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
}

// VisitSummary is an appointment row as shown on the doctor dashboard.
type VisitSummary struct {
	ID               uuid.UUID `json:"id"`
	Date             string    `json:"date"`
	StartTime        string    `json:"start_time"`
	Status           string    `json:"status"`
	Type             string    `json:"type"`
	PatientFirstName string    `json:"patient_first_name"`
	PatientLastName  string    `json:"patient_last_name"`
	PatientPhotoURL  *string   `json:"patient_photo_url,omitempty"`
}

// ReviewSummary is a recent review as shown on the doctor dashboard.
type ReviewSummary struct {
	ID               uuid.UUID `json:"id"`
	Rating           int       `json:"rating"`
	Comment          *string   `json:"comment,omitempty"`
	PatientFirstName string    `json:"patient_first_name"`
	PatientLastName  string    `json:"patient_last_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// Dashboard is the composite returned to an authenticated doctor.
type Dashboard struct {
	Profile       *Profile        `json:"profile"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Phone         *string         `json:"phone,omitempty"`
	PhotoURL      *string         `json:"photo_url,omitempty"`
	Today         []*VisitSummary `json:"today_appointments"`
	Upcoming      []*VisitSummary `json:"upcoming_appointments"`
	RecentReviews []*ReviewSummary `json:"recent_reviews"`
}
