package domain

import (
	"strings"
	"time"
)

// Event is an organizer's event collecting speaker assets
type Event struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// GetDisplayDate returns the start date or "-"
func (e Event) GetDisplayDate(layout string) string {
	if e.StartDate == nil {
		return "-"
	}
	return e.StartDate.Format(layout)
}

// Speaker is an invited speaker of an event
type Speaker struct {
	ID               int64  `json:"id"`
	EventID          int64  `json:"eventId"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Company          string `json:"company,omitempty"`
	JobTitle         string `json:"jobTitle,omitempty"`
	SubmissionStatus string `json:"submissionStatus,omitempty"`
}

// FullName joins first and last name, falling back to the email
func (s Speaker) FullName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.Email
	}
	return name
}
