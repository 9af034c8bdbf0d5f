// Package visitors handles first-time visitor registration, including the
// dependent children records written as a second step.
package visitors

import (
	"time"

	"github.com/google/uuid"
)

// Visitor is the primary entity of the registration write unit. Once its
// insert commits it is authoritative, regardless of what happens to the
// children step.
type Visitor struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"fullName"`
	Email      *string    `json:"email,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	FirstVisit time.Time  `json:"firstVisit"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedBy  uuid.UUID  `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	Children   []Child    `json:"children,omitempty"`
}

// Child is a dependent record tied to a visitor.
type Child struct {
	ID        uuid.UUID  `json:"id"`
	VisitorID uuid.UUID  `json:"visitorId"`
	FullName  string     `json:"fullName"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Allergies *string    `json:"allergies,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
