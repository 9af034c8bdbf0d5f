package rbac

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ErrRoleNotFound indicates the identity has no role assignment row.
var ErrRoleNotFound = errors.New("rbac: user role not found")

// Store resolves the single role assigned to an identity.
type Store interface {
	RoleFor(ctx context.Context, userID uuid.UUID) (Role, error)
}

// PGStore reads role assignments from PostgreSQL. Role rows are maintained by
// the admin tooling; this side only reads them.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PostgreSQL-backed store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// RoleFor fetches the role for a user id.
func (s *PGStore) RoleFor(ctx context.Context, userID uuid.UUID) (Role, error) {
	const query = "SELECT role FROM user_roles WHERE user_id = $1"
	var raw string
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrRoleNotFound
		}
		return "", fmt.Errorf("rbac: query role: %w", err)
	}
	role, ok := ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("rbac: unknown role %q for user %s", raw, userID)
	}
	return role, nil
}

var _ Store = (*PGStore)(nil)

// CachedStore fronts a Store with a short-lived Redis cache so hot routes do
// not hit the database for every request. Negative results are not cached:
// a freshly assigned role must become visible immediately.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

// NewCachedStore wraps inner with a Redis cache.
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

// RoleFor resolves the role, preferring the cache.
func (s *CachedStore) RoleFor(ctx context.Context, userID uuid.UUID) (Role, error) {
	key := cacheKey(userID)
	if cached, err := s.client.Get(ctx, key).Result(); err == nil {
		if role, ok := ParseRole(cached); ok {
			return role, nil
		}
	}

	role, err := s.inner.RoleFor(ctx, userID)
	if err != nil {
		return "", err
	}
	// Best effort; a cache write failure must not fail authorization.
	_ = s.client.Set(ctx, key, string(role), s.ttl).Err()
	return role, nil
}

// Invalidate drops the cached role after an external role change.
func (s *CachedStore) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, cacheKey(userID)).Err()
}

func cacheKey(userID uuid.UUID) string {
	return "portal:role:" + userID.String()
}

var _ Store = (*CachedStore)(nil)
