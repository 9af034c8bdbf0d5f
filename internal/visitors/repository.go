package visitors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidanova-church/portal/internal/platform/db"
)

var (
	ErrNotFound  = errors.New("visitors: record not found")
	ErrDuplicate = errors.New("visitors: visitor already exists")
)

// Repository persists visitors and their dependent children records.
// CreateVisitor and CreateChildren are deliberately separate operations:
// the visitor insert must stay durable when the children insert fails.
type Repository interface {
	CreateVisitor(ctx context.Context, v Visitor) (Visitor, error)
	CreateChildren(ctx context.Context, visitorID uuid.UUID, children []Child) ([]Child, error)
	Get(ctx context.Context, id uuid.UUID) (*Visitor, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, req ListVisitorsRequest) ([]Visitor, int, error)
}

// PGRepository implements Repository against the hosted store through the
// elevated access path. The gateway authorizes before any method runs.
type PGRepository struct {
	pool        *pgxpool.Pool
	serviceRole string
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool, serviceRole string) *PGRepository {
	return &PGRepository{pool: pool, serviceRole: serviceRole}
}

// CreateVisitor inserts the primary record in its own transaction scope.
func (r *PGRepository) CreateVisitor(ctx context.Context, v Visitor) (Visitor, error) {
	const query = `
		INSERT INTO visitors (id, full_name, email, phone, first_visit, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query,
			v.ID,
			v.FullName,
			textOrNull(v.Email),
			textOrNull(v.Phone),
			v.FirstVisit,
			textOrNull(v.Notes),
			v.CreatedBy,
		).Scan(&v.CreatedAt)
	})
	if err != nil {
		return Visitor{}, fmt.Errorf("visitors: create visitor: %w", err)
	}
	return v, nil
}

// CreateChildren inserts the dependent records in one transaction of their
// own. A failure here never touches the already committed visitor.
func (r *PGRepository) CreateChildren(ctx context.Context, visitorID uuid.UUID, children []Child) ([]Child, error) {
	const query = `
		INSERT INTO visitor_children (id, visitor_id, full_name, birth_date, allergies)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		return db.WithTx(ctx, conn, func(tx pgx.Tx) error {
			for i := range children {
				var birth pgtype.Date
				if children[i].BirthDate != nil {
					birth = pgtype.Date{Time: *children[i].BirthDate, Valid: true}
				}
				if err := tx.QueryRow(ctx, query,
					children[i].ID,
					visitorID,
					children[i].FullName,
					birth,
					textOrNull(children[i].Allergies),
				).Scan(&children[i].CreatedAt); err != nil {
					return err
				}
				children[i].VisitorID = visitorID
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("visitors: create children: %w", err)
	}
	return children, nil
}

// Get fetches one visitor with its children.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Visitor, error) {
	var visitor Visitor
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		const query = `
			SELECT id, full_name, email, phone, first_visit, notes, created_by, created_at
			FROM visitors WHERE id = $1`
		var email, phone, notes pgtype.Text
		if err := conn.QueryRow(ctx, query, id).Scan(
			&visitor.ID, &visitor.FullName, &email, &phone,
			&visitor.FirstVisit, &notes, &visitor.CreatedBy, &visitor.CreatedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		visitor.Email = fromText(email)
		visitor.Phone = fromText(phone)
		visitor.Notes = fromText(notes)

		const childQuery = `
			SELECT id, visitor_id, full_name, birth_date, allergies, created_at
			FROM visitor_children WHERE visitor_id = $1 ORDER BY full_name`
		rows, err := conn.Query(ctx, childQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var child Child
			var birth pgtype.Date
			var allergies pgtype.Text
			if err := rows.Scan(&child.ID, &child.VisitorID, &child.FullName, &birth, &allergies, &child.CreatedAt); err != nil {
				return err
			}
			if birth.Valid {
				t := birth.Time
				child.BirthDate = &t
			}
			child.Allergies = fromText(allergies)
			visitor.Children = append(visitor.Children, child)
		}
		return rows.Err()
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("visitors: get: %w", err)
	}
	return &visitor, nil
}

// EmailExists reports whether a visitor is already registered with the email.
func (r *PGRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM visitors WHERE lower(email) = lower($1))", email,
		).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("visitors: email exists: %w", err)
	}
	return exists, nil
}

// List returns visitors matching the optional search, newest first.
func (r *PGRepository) List(ctx context.Context, req ListVisitorsRequest) ([]Visitor, int, error) {
	where := ""
	args := []any{}
	if req.Search != nil && *req.Search != "" {
		where = "WHERE (full_name ILIKE $1 OR email ILIKE $1)"
		args = append(args, "%"+*req.Search+"%")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	var visitors []Visitor
	var total int
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM visitors "+where, args...).Scan(&total); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			SELECT id, full_name, email, phone, first_visit, notes, created_by, created_at
			FROM visitors %s
			ORDER BY created_at DESC
			LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
		rows, err := conn.Query(ctx, query, append(args, limit, req.Offset)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v Visitor
			var email, phone, notes pgtype.Text
			if err := rows.Scan(&v.ID, &v.FullName, &email, &phone, &v.FirstVisit, &notes, &v.CreatedBy, &v.CreatedAt); err != nil {
				return err
			}
			v.Email = fromText(email)
			v.Phone = fromText(phone)
			v.Notes = fromText(notes)
			visitors = append(visitors, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, fmt.Errorf("visitors: list: %w", err)
	}
	return visitors, total, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func fromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

var _ Repository = (*PGRepository)(nil)
