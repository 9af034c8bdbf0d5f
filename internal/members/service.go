package members

import (
	"context"

	"github.com/google/uuid"
)

// Service owns member directory rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get fetches one member.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.Get(ctx, id)
}

// List returns directory entries.
func (s *Service) List(ctx context.Context, req ListMembersRequest) ([]Member, int, error) {
	return s.repo.List(ctx, req)
}

// Update applies a partial update to a member.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error) {
	return s.repo.Update(ctx, id, req)
}

// ProfileFor returns the member row backing the authenticated identity.
func (s *Service) ProfileFor(ctx context.Context, identityID uuid.UUID) (*Member, error) {
	return s.repo.Get(ctx, identityID)
}
