package adminpanel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidanova-church/portal/internal/auth"
	"github.com/vidanova-church/portal/internal/platform/httpx"
	_ "github.com/vidanova-church/portal/testing"
)

type stubRepo struct {
	overview Overview
	err      error
}

func (s *stubRepo) Overview(ctx context.Context) (Overview, error) {
	return s.overview, s.err
}

func TestOverview(t *testing.T) {
	repo := &stubRepo{overview: Overview{
		Members:       120,
		ActiveMembers: 98,
		Visitors:      34,
		CheckinsToday: 12,
		GeneratedAt:   "2026-08-30T10:00:00Z",
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, repo, auth.Middleware{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil)
	rec := httptest.NewRecorder()
	h.Overview(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Success bool     `json:"success"`
		Data    Overview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 120, env.Data.Members)
	assert.Equal(t, 12, env.Data.CheckinsToday)
}

func TestOverviewRepositoryFailure(t *testing.T) {
	repo := &stubRepo{err: errors.New("db unavailable")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, repo, auth.Middleware{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil)
	rec := httptest.NewRecorder()
	h.Overview(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var env httpx.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, httpx.TypeServerError, env.Error.Type)
}
