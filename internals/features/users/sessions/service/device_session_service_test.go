package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/constants"
	sessionModel "sekolahku_backend/internals/features/users/sessions/model"
)

// fakeSessionStore: in-memory pengganti Postgres untuk test service.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionModel.DeviceSessionModel
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*sessionModel.DeviceSessionModel)}
}

func (f *fakeSessionStore) Create(_ context.Context, s *sessionModel.DeviceSessionModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) CountActive(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionStore) ListActive(_ context.Context, userID uuid.UUID) ([]sessionModel.DeviceSessionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sessionModel.DeviceSessionModel
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func (f *fakeSessionStore) DeactivateByID(_ context.Context, sessionID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	return true, nil
}

func (f *fakeSessionStore) DeactivateAll(_ context.Context, userID uuid.UUID, exceptID *uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.sessions {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		if exceptID != nil && s.ID == *exceptID {
			continue
		}
		s.IsActive = false
		n++
	}
	return n, nil
}

func (f *fakeSessionStore) TouchActivity(_ context.Context, sessionID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionID]; ok {
		s.LastActivity = at
	}
	return nil
}

func (f *fakeSessionStore) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func addSession(t *testing.T, store *fakeSessionStore, userID uuid.UUID, lastActivity time.Time) uuid.UUID {
	t.Helper()
	s := &sessionModel.DeviceSessionModel{
		UserID:       userID,
		TokenHash:    sessionModel.ComputeTokenHash(uuid.NewString(), "test-secret"),
		IsActive:     true,
		LastActivity: lastActivity,
		CreatedAt:    lastActivity,
	}
	require.NoError(t, store.Create(context.Background(), s))
	return s.ID
}

func TestEnforceLimitEvictsOldestForSingleDeviceRole(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)
	userID := uuid.New()

	old := addSession(t, store, userID, time.Now().Add(-time.Hour))

	max := svc.MaxSessionsFor(constants.RoleStudent)
	require.Equal(t, 1, max)

	evicted, err := svc.EnforceLimit(ctx, userID, max)
	require.NoError(t, err)
	require.Len(t, evicted, 1)
	require.Equal(t, old, evicted[0].ID)

	// device lama sudah ditendang; sesi baru masuk
	addSession(t, store, userID, time.Now())

	active, err := svc.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NotEqual(t, old, active[0].ID)
}

func TestEnforceLimitAllowsManySessionsForStaff(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)
	userID := uuid.New()

	max := svc.MaxSessionsFor(constants.RoleTeacher)
	require.Equal(t, constants.StaffSessionCap, max)

	for i := 0; i < 5; i++ {
		evicted, err := svc.EnforceLimit(ctx, userID, max)
		require.NoError(t, err)
		require.Empty(t, evicted)
		addSession(t, store, userID, time.Now().Add(time.Duration(i)*time.Minute))
	}

	n, err := svc.CountActive(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}

func TestEnforceLimitEvictsByLastActivityOrder(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)
	userID := uuid.New()

	oldest := addSession(t, store, userID, time.Now().Add(-3*time.Hour))
	middle := addSession(t, store, userID, time.Now().Add(-2*time.Hour))
	newest := addSession(t, store, userID, time.Now().Add(-1*time.Hour))

	// cap 2, sudah ada 3 → dua paling lama ditendang supaya ada ruang 1 lagi
	evicted, err := svc.EnforceLimit(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, evicted, 2)
	require.Equal(t, oldest, evicted[0].ID)
	require.Equal(t, middle, evicted[1].ID)

	active, err := svc.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, newest, active[0].ID)
}

func TestDeactivateIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)

	userA := uuid.New()
	userB := uuid.New()
	sessB := addSession(t, store, userB, time.Now())

	// A mencoba menonaktifkan sesi milik B → gagal, sesi B tetap aktif
	ok, err := svc.Deactivate(ctx, sessB, userA)
	require.NoError(t, err)
	require.False(t, ok)

	active, err := svc.ListActive(ctx, userB)
	require.NoError(t, err)
	require.Len(t, active, 1)

	ok, err = svc.Deactivate(ctx, sessB, userB)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeactivateAllExceptCurrent(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)
	userID := uuid.New()

	addSession(t, store, userID, time.Now().Add(-2*time.Hour))
	addSession(t, store, userID, time.Now().Add(-1*time.Hour))
	current := addSession(t, store, userID, time.Now())

	n, err := svc.DeactivateAll(ctx, userID, &current)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	active, err := svc.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, current, active[0].ID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)
	userID := uuid.New()

	addSession(t, store, userID, time.Now())

	stats, err := svc.Stats(ctx, userID, constants.RoleTeacher)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Active)
	require.Equal(t, constants.StaffSessionCap, stats.Max)
	require.EqualValues(t, constants.StaffSessionCap-1, stats.Remaining)

	// non-staff dengan 1 sesi aktif sudah penuh
	stats, err = svc.Stats(ctx, userID, constants.RoleParent)
	require.NoError(t, err)
	require.EqualValues(t, 0, stats.Remaining)
}

func TestTouchBumpsLastActivity(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	svc := NewDeviceSessionService(store)
	userID := uuid.New()

	id := addSession(t, store, userID, time.Now().Add(-time.Hour))
	require.NoError(t, svc.Touch(ctx, id))

	active, err := svc.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.WithinDuration(t, time.Now(), active[0].LastActivity, time.Minute)
}

func TestSessionRetentionSweep(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	userID := uuid.New()

	addSession(t, store, userID, time.Now().Add(-31*24*time.Hour))
	keep := addSession(t, store, userID, time.Now())

	n, err := store.DeleteCreatedBefore(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	active, err := store.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, keep, active[0].ID)
}
