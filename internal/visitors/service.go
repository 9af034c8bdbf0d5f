package visitors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PartialFailureError reports that the visitor insert committed but the
// dependent children insert failed. The visitor is NOT rolled back; callers
// must surface both facts instead of masking one.
type PartialFailureError struct {
	VisitorID uuid.UUID
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("visitors: visitor %s saved but children failed: %v", e.VisitorID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// FollowupEnqueuer schedules the welcome follow-up after a fully successful
// registration. Implemented by the jobs client.
type FollowupEnqueuer interface {
	EnqueueVisitorFollowup(ctx context.Context, visitorID uuid.UUID, email, fullName string) error
}

// Service owns visitor registration rules.
type Service struct {
	repo     Repository
	enqueuer FollowupEnqueuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service. enqueuer may be nil when the worker is not
// deployed.
func NewService(repo Repository, enqueuer FollowupEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, logger: logger, now: time.Now}
}

// Register creates the visitor and then the children as a second step.
// Returns ErrDuplicate for a known email, and *PartialFailureError when the
// children step fails after the visitor committed.
func (s *Service) Register(ctx context.Context, req RegisterVisitorRequest, createdBy uuid.UUID) (*Visitor, error) {
	if req.Email != nil && *req.Email != "" {
		exists, err := s.repo.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicate
		}
	}

	firstVisit := s.now().UTC().Truncate(24 * time.Hour)
	if req.FirstVisit != nil {
		parsed, err := time.Parse("2006-01-02", *req.FirstVisit)
		if err == nil {
			firstVisit = parsed
		}
	}

	visitor, err := s.repo.CreateVisitor(ctx, Visitor{
		ID:         uuid.New(),
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		FirstVisit: firstVisit,
		Notes:      req.Notes,
		CreatedBy:  createdBy,
	})
	if err != nil {
		return nil, err
	}

	// The visitor is committed from here on. A children failure is reported
	// as partial, never converted into a total failure.
	if len(req.Children) > 0 {
		children := make([]Child, 0, len(req.Children))
		for _, input := range req.Children {
			child := Child{ID: uuid.New(), FullName: input.FullName, Allergies: input.Allergies}
			if input.BirthDate != nil {
				if parsed, err := time.Parse("2006-01-02", *input.BirthDate); err == nil {
					child.BirthDate = &parsed
				}
			}
			children = append(children, child)
		}
		saved, err := s.repo.CreateChildren(ctx, visitor.ID, children)
		if err != nil {
			return &visitor, &PartialFailureError{VisitorID: visitor.ID, Err: err}
		}
		visitor.Children = saved
	}

	s.enqueueFollowup(ctx, visitor)
	return &visitor, nil
}

// Get fetches one visitor with children.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Visitor, error) {
	return s.repo.Get(ctx, id)
}

// List returns visitors matching the request.
func (s *Service) List(ctx context.Context, req ListVisitorsRequest) ([]Visitor, int, error) {
	return s.repo.List(ctx, req)
}

// enqueueFollowup is best effort; a queue outage must not fail registration.
func (s *Service) enqueueFollowup(ctx context.Context, visitor Visitor) {
	if s.enqueuer == nil || visitor.Email == nil || *visitor.Email == "" {
		return
	}
	if err := s.enqueuer.EnqueueVisitorFollowup(ctx, visitor.ID, *visitor.Email, visitor.FullName); err != nil {
		if s.logger != nil {
			s.logger.Warn("enqueue visitor followup",
				slog.String("visitor_id", visitor.ID.String()),
				slog.Any("error", err))
		}
	}
}
