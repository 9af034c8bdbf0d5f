// Package checkin records kids service attendance.
package checkin

import (
	"time"

	"github.com/google/uuid"
)

// Record is one child checked into one service date.
type Record struct {
	ID          uuid.UUID `json:"id"`
	ChildID     uuid.UUID `json:"childId"`
	ChildName   string    `json:"childName"`
	ServiceDate time.Time `json:"serviceDate"`
	CheckedInBy uuid.UUID `json:"checkedInBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CheckinRequest struct {
	ChildID     string  `json:"childId" validate:"required,uuid"`
	ServiceDate *string `json:"serviceDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
