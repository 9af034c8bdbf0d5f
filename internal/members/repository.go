package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidanova-church/portal/internal/platform/db"
)

// ErrNotFound indicates the referenced member does not exist.
var ErrNotFound = errors.New("members: record not found")

// Repository persists member directory entries.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Member, error)
	List(ctx context.Context, req ListMembersRequest) ([]Member, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error)
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

const memberColumns = "id, full_name, email, phone, locale, is_active, created_at, updated_at"

// Get fetches one member by id.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	var member Member
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, "SELECT "+memberColumns+" FROM members WHERE id = $1", id)
		return scanMember(row, &member)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("members: get: %w", err)
	}
	return &member, nil
}

// List returns directory entries with optional search and active filter.
func (r *PGRepository) List(ctx context.Context, req ListMembersRequest) ([]Member, int, error) {
	var conditions []string
	var args []any
	if req.Search != nil && *req.Search != "" {
		args = append(args, "%"+*req.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	var members []Member
	var total int
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM members "+where, args...).Scan(&total); err != nil {
			return err
		}
		query := fmt.Sprintf("SELECT %s FROM members %s ORDER BY full_name LIMIT $%d OFFSET $%d",
			memberColumns, where, len(args)+1, len(args)+2)
		rows, err := conn.Query(ctx, query, append(args, limit, req.Offset)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var m Member
			if err := scanMember(rows, &m); err != nil {
				return err
			}
			members = append(members, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, fmt.Errorf("members: list: %w", err)
	}
	return members, total, nil
}

// Update applies the non-nil fields and returns the updated row.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.FullName != nil {
		add("full_name", *req.FullName)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Locale != nil {
		add("locale", *req.Locale)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE members SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), memberColumns)

	var member Member
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		return scanMember(conn.QueryRow(ctx, query, args...), &member)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("members: update: %w", err)
	}
	return &member, nil
}

func scanMember(row pgx.Row, m *Member) error {
	var phone pgtype.Text
	if err := row.Scan(&m.ID, &m.FullName, &m.Email, &phone, &m.Locale, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}
	if phone.Valid {
		s := phone.String
		m.Phone = &s
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
