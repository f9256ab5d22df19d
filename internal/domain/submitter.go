package domain

import (
	"strings"
	"time"
)

// Submitter is the citizen behind a communication. One row per email.
type Submitter struct {
	ID                int64
	Name              string
	Email             string
	Phone             *string
	Affiliation       *string
	Gender            *string
	AgeRange          *string
	Confidential      bool
	ContactAuthorized bool
	RegisteredAt      time.Time
}

// DisplayNameFromEmail returns the local part of an email address.
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// Masked returns a copy with contact data hidden.
func (s Submitter) Masked() Submitter {
	s.Name = "Confidencial"
	s.Email = ""
	s.Phone = nil
	return s
}
