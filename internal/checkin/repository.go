package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidanova-church/portal/internal/platform/db"
)

// Sentinel errors for check-in persistence.
var (
	ErrChildNotFound = errors.New("checkin: child not found")
	ErrAlreadyIn     = errors.New("checkin: child already checked in for date")
)

// Repository persists attendance records.
type Repository interface {
	ChildName(ctx context.Context, childID uuid.UUID) (string, error)
	Create(ctx context.Context, rec Record) (Record, error)
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)
}

// PGRepository implements Repository through the elevated access path.
type PGRepository struct {
	pool        *pgxpool.Pool
	serviceRole string
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool, serviceRole string) *PGRepository {
	return &PGRepository{pool: pool, serviceRole: serviceRole}
}

// ChildName resolves the child's display name, or ErrChildNotFound.
func (r *PGRepository) ChildName(ctx context.Context, childID uuid.UUID) (string, error) {
	var name string
	var found bool
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, "SELECT full_name FROM visitor_children WHERE id = $1", childID)
		if err != nil {
			return err
		}
		defer rows.Close()
		if rows.Next() {
			found = true
			return rows.Scan(&name)
		}
		return rows.Err()
	})
	if err != nil {
		return "", fmt.Errorf("checkin: child name: %w", err)
	}
	if !found {
		return "", ErrChildNotFound
	}
	return name, nil
}

// Create inserts one attendance record.
func (r *PGRepository) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
		INSERT INTO kids_checkins (id, child_id, service_date, checked_in_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (child_id, service_date) DO NOTHING
		RETURNING created_at`

	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, rec.ID, rec.ChildID, rec.ServiceDate, rec.CheckedInBy)
		if err != nil {
			return err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return ErrAlreadyIn
		}
		return rows.Scan(&rec.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyIn) {
			return Record{}, ErrAlreadyIn
		}
		return Record{}, fmt.Errorf("checkin: create: %w", err)
	}
	return rec, nil
}

// ListByDate returns the attendance for one service date.
func (r *PGRepository) ListByDate(ctx context.Context, date time.Time) ([]Record, error) {
	const query = `
		SELECT c.id, c.child_id, vc.full_name, c.service_date, c.checked_in_by, c.created_at
		FROM kids_checkins c
		JOIN visitor_children vc ON vc.id = c.child_id
		WHERE c.service_date = $1
		ORDER BY vc.full_name`

	var records []Record
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, date)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec Record
			if err := rows.Scan(&rec.ID, &rec.ChildID, &rec.ChildName, &rec.ServiceDate, &rec.CheckedInBy, &rec.CreatedAt); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("checkin: list by date: %w", err)
	}
	return records, nil
}

var _ Repository = (*PGRepository)(nil)
