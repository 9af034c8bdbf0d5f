package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	roles map[uuid.UUID]Role
	hits  int
}

func (s *mapStore) RoleFor(ctx context.Context, userID uuid.UUID) (Role, error) {
	s.hits++
	role, ok := s.roles[userID]
	if !ok {
		return "", ErrRoleNotFound
	}
	return role, nil
}

func newCachedStore(t *testing.T, inner Store, ttl time.Duration) *CachedStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCachedStore(inner, client, ttl)
}

func TestCachedStoreHitsInnerOnce(t *testing.T) {
	userID := uuid.New()
	inner := &mapStore{roles: map[uuid.UUID]Role{userID: RoleLeader}}
	store := newCachedStore(t, inner, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		role, err := store.RoleFor(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, RoleLeader, role)
	}
	assert.Equal(t, 1, inner.hits, "second and third lookups must come from cache")
}

func TestCachedStoreDoesNotCacheMisses(t *testing.T) {
	userID := uuid.New()
	inner := &mapStore{roles: map[uuid.UUID]Role{}}
	store := newCachedStore(t, inner, time.Minute)

	ctx := context.Background()
	_, err := store.RoleFor(ctx, userID)
	require.ErrorIs(t, err, ErrRoleNotFound)

	// Assigning the role after a miss must be visible on the next lookup.
	inner.roles[userID] = RoleTeacher
	role, err := store.RoleFor(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, role)
}

func TestCachedStoreInvalidate(t *testing.T) {
	userID := uuid.New()
	inner := &mapStore{roles: map[uuid.UUID]Role{userID: RoleMember}}
	store := newCachedStore(t, inner, time.Minute)

	ctx := context.Background()
	_, err := store.RoleFor(ctx, userID)
	require.NoError(t, err)

	inner.roles[userID] = RoleAdmin
	role, err := store.RoleFor(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, role, "cached value still served before invalidation")

	require.NoError(t, store.Invalidate(ctx, userID))
	role, err = store.RoleFor(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestCachedStoreIgnoresCorruptCacheValue(t *testing.T) {
	userID := uuid.New()
	inner := &mapStore{roles: map[uuid.UUID]Role{userID: RoleLeader}}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewCachedStore(inner, client, time.Minute)

	require.NoError(t, mr.Set(cacheKey(userID), "superuser"))

	role, err := store.RoleFor(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, RoleLeader, role)
	assert.Equal(t, 1, inner.hits)
}

func TestCachedStorePropagatesInnerError(t *testing.T) {
	boom := errors.New("db down")
	store := newCachedStore(t, innerFunc(func(context.Context, uuid.UUID) (Role, error) {
		return "", boom
	}), time.Minute)

	_, err := store.RoleFor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

type innerFunc func(ctx context.Context, userID uuid.UUID) (Role, error)

func (f innerFunc) RoleFor(ctx context.Context, userID uuid.UUID) (Role, error) {
	return f(ctx, userID)
}
