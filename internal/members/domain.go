// Package members exposes the restricted member directory and the
// self-service profile endpoint.
package members

import (
	"time"

	"github.com/google/uuid"
)

// Member is a directory entry. The id matches the auth provider identity id
// for members who have portal access.
type Member struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Locale    string    `json:"locale"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
