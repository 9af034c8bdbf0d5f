package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service owns check-in rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CheckIn records attendance for a child on a service date, defaulting to
// today. Returns ErrChildNotFound when the child id references nothing.
func (s *Service) CheckIn(ctx context.Context, childID uuid.UUID, serviceDate *time.Time, checkedInBy uuid.UUID) (Record, error) {
	name, err := s.repo.ChildName(ctx, childID)
	if err != nil {
		return Record{}, err
	}

	date := s.now().UTC().Truncate(24 * time.Hour)
	if serviceDate != nil {
		date = serviceDate.UTC().Truncate(24 * time.Hour)
	}

	rec, err := s.repo.Create(ctx, Record{
		ID:          uuid.New(),
		ChildID:     childID,
		ServiceDate: date,
		CheckedInBy: checkedInBy,
	})
	if err != nil {
		return Record{}, err
	}
	rec.ChildName = name
	return rec, nil
}

// ListByDate returns the attendance for one service date.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]Record, error) {
	return s.repo.ListByDate(ctx, date.UTC().Truncate(24*time.Hour))
}
