package checkin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidanova-church/portal/internal/auth"
	"github.com/vidanova-church/portal/internal/platform/httpx"
	"github.com/vidanova-church/portal/internal/rbac"
	_ "github.com/vidanova-church/portal/testing"
)

type mockRepository struct {
	names   map[uuid.UUID]string
	records map[string]Record

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		names:   make(map[uuid.UUID]string),
		records: make(map[string]Record),
	}
}

func recordKey(childID uuid.UUID, date time.Time) string {
	return childID.String() + "|" + date.Format("2006-01-02")
}

func (m *mockRepository) ChildName(ctx context.Context, childID uuid.UUID) (string, error) {
	name, ok := m.names[childID]
	if !ok {
		return "", ErrChildNotFound
	}
	return name, nil
}

func (m *mockRepository) Create(ctx context.Context, rec Record) (Record, error) {
	if m.createErr != nil {
		return Record{}, m.createErr
	}
	key := recordKey(rec.ChildID, rec.ServiceDate)
	if _, dup := m.records[key]; dup {
		return Record{}, ErrAlreadyIn
	}
	rec.CreatedAt = time.Now().UTC()
	m.records[key] = rec
	return rec, nil
}

func (m *mockRepository) ListByDate(ctx context.Context, date time.Time) ([]Record, error) {
	var out []Record
	for _, rec := range m.records {
		if rec.ServiceDate.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ Repository = (*mockRepository)(nil)

func TestCheckInDefaultsToToday(t *testing.T) {
	repo := newMockRepository()
	childID := uuid.New()
	repo.names[childID] = "Pedro Souza"

	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC) }

	rec, err := svc.CheckIn(context.Background(), childID, nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Pedro Souza", rec.ChildName)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), rec.ServiceDate)
}

func TestCheckInUnknownChild(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.CheckIn(context.Background(), uuid.New(), nil, uuid.New())
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestCheckInTwiceSameDate(t *testing.T) {
	repo := newMockRepository()
	childID := uuid.New()
	repo.names[childID] = "Joana"
	svc := NewService(repo)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(context.Background(), childID, &date, uuid.New())
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), childID, &date, uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyIn)
}

func newTestHandler(repo Repository) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), auth.Middleware{})
}

func postCheckin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkin", bytes.NewBufferString(body))
	principal := auth.Principal{
		Identity: auth.Identity{ID: uuid.New()},
		Role:     rbac.RoleTeacher,
	}
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateCheckinSuccess(t *testing.T) {
	repo := newMockRepository()
	childID := uuid.New()
	repo.names[childID] = "Pedro"
	h := newTestHandler(repo)

	rec := postCheckin(t, h, `{"childId":"`+childID.String()+`","serviceDate":"2026-08-30"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var env struct {
		Success bool   `json:"success"`
		Data    Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "Pedro", env.Data.ChildName)
}

func TestCreateCheckinUnknownChild(t *testing.T) {
	h := newTestHandler(newMockRepository())

	rec := postCheckin(t, h, `{"childId":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env httpx.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, httpx.TypeNotFound, env.Error.Type)
	assert.Equal(t, "Criança não encontrada", env.Error.Message)
}

func TestCreateCheckinDuplicate(t *testing.T) {
	repo := newMockRepository()
	childID := uuid.New()
	repo.names[childID] = "Joana"
	h := newTestHandler(repo)

	body := `{"childId":"` + childID.String() + `","serviceDate":"2026-08-30"}`
	_ = postCheckin(t, h, body)
	rec := postCheckin(t, h, body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var env httpx.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "already_checked_in", env.Error.Details["reason"])
}

func TestCreateCheckinValidation(t *testing.T) {
	h := newTestHandler(newMockRepository())

	rec := postCheckin(t, h, `{"childId":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env httpx.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, httpx.TypeValidation, env.Error.Type)
}

func TestListCheckinsByDate(t *testing.T) {
	repo := newMockRepository()
	childID := uuid.New()
	repo.names[childID] = "Pedro"
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	repo.records[recordKey(childID, date)] = Record{
		ID: uuid.New(), ChildID: childID, ChildName: "Pedro", ServiceDate: date,
	}
	h := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/checkin?date=2026-08-30", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data struct {
			Date     string   `json:"date"`
			Checkins []Record `json:"checkins"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "2026-08-30", env.Data.Date)
	require.Len(t, env.Data.Checkins, 1)
}
