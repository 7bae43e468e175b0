package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
)

// fakeAttendanceStore meniru unique index (user_id, date, day, start, end)
// dengan map + mutex, supaya sifat collapse bisa diuji tanpa Postgres.
type fakeAttendanceStore struct {
	mu      sync.Mutex
	records map[occurrenceKey]attendanceModel.AttendanceRecordModel
}

type occurrenceKey struct {
	userID    uuid.UUID
	date      string
	day       string
	startTime string
	endTime   string
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[occurrenceKey]attendanceModel.AttendanceRecordModel)}
}

func keyFor(rec *attendanceModel.AttendanceRecordModel) occurrenceKey {
	return occurrenceKey{
		userID:    rec.UserID,
		date:      rec.Date.Format("2006-01-02"),
		day:       rec.SessionDay,
		startTime: rec.SessionStartTime,
		endTime:   rec.SessionEndTime,
	}
}

func (f *fakeAttendanceStore) UpsertIfAbsent(_ context.Context, rec *attendanceModel.AttendanceRecordModel) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyFor(rec)
	if _, exists := f.records[k]; exists {
		return false, nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	f.records[k] = *rec
	return true, nil
}

func (f *fakeAttendanceStore) ListByUser(_ context.Context, userID uuid.UUID, offset, limit int) ([]attendanceModel.AttendanceRecordModel, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendanceModel.AttendanceRecordModel
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeAttendanceStore) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rec := range f.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func newTestCheckInService(store *fakeAttendanceStore) *CheckInService {
	svc := NewCheckInService(store, testSecret)
	fixed := time.Date(2025, time.March, 4, 9, 15, 0, 0, time.Local) // Selasa pagi
	svc.Now = func() time.Time { return fixed }
	return svc
}

func TestCheckInCreatesRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeAttendanceStore()
	svc := newTestCheckInService(store)
	userID := uuid.New()

	token, err := IssueSessionToken(testSecret, "Tuesday", "09:00", "10:30", time.Now())
	require.NoError(t, err)

	rec, created, err := svc.CheckIn(ctx, token, userID)
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, rec)
	require.Equal(t, userID, rec.UserID)
	require.Equal(t, userID, rec.MarkedBy)
	require.Equal(t, "Tuesday", rec.SessionDay)
	require.Equal(t, attendanceModel.AttendancePresent, rec.Status)

	// tanggal dinormalisasi ke tengah malam
	require.Equal(t, 0, rec.Date.Hour())
	require.Equal(t, 0, rec.Date.Minute())
	require.Equal(t, 4, rec.Date.Day())
}

func TestCheckInIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeAttendanceStore()
	svc := newTestCheckInService(store)
	userID := uuid.New()

	token, err := IssueSessionToken(testSecret, "Tuesday", "09:00", "10:30", time.Now())
	require.NoError(t, err)

	_, created, err := svc.CheckIn(ctx, token, userID)
	require.NoError(t, err)
	require.True(t, created)

	// scan kedua dengan token yang sama → sukses tanpa baris baru
	rec, created, err := svc.CheckIn(ctx, token, userID)
	require.NoError(t, err)
	require.False(t, created)
	require.Nil(t, rec)

	n, err := store.CountByUser(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCheckInConcurrentCollapsesToOneRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeAttendanceStore()
	svc := newTestCheckInService(store)
	userID := uuid.New()

	token, err := IssueSessionToken(testSecret, "Tuesday", "09:00", "10:30", time.Now())
	require.NoError(t, err)

	const goroutines = 16
	type result struct {
		created bool
		err     error
	}
	var wg sync.WaitGroup
	results := make(chan result, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := svc.CheckIn(ctx, token, userID)
			results <- result{created: created, err: err}
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for res := range results {
		require.NoError(t, res.err)
		if res.created {
			wins++
		}
	}
	require.Equal(t, 1, wins)

	n, err := store.CountByUser(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCheckInSameTokenDifferentUsers(t *testing.T) {
	ctx := context.Background()
	store := newFakeAttendanceStore()
	svc := newTestCheckInService(store)

	token, err := IssueSessionToken(testSecret, "Tuesday", "09:00", "10:30", time.Now())
	require.NoError(t, err)

	userA := uuid.New()
	userB := uuid.New()

	_, created, err := svc.CheckIn(ctx, token, userA)
	require.NoError(t, err)
	require.True(t, created)

	// satu QR dipakai seluruh kelas; tiap user dapat record sendiri
	_, created, err = svc.CheckIn(ctx, token, userB)
	require.NoError(t, err)
	require.True(t, created)

	nA, err := store.CountByUser(ctx, userA)
	require.NoError(t, err)
	require.EqualValues(t, 1, nA)
	nB, err := store.CountByUser(ctx, userB)
	require.NoError(t, err)
	require.EqualValues(t, 1, nB)
}

func TestCheckInRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestCheckInService(newFakeAttendanceStore())
	userID := uuid.New()

	_, _, err := svc.CheckIn(ctx, "", userID)
	require.ErrorIs(t, err, ErrMissingToken)

	_, _, err = svc.CheckIn(ctx, "token-acak", userID)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// ditandatangani dengan secret berbeda
	other, err := IssueSessionToken("secret-berbeda", "Monday", "07:00", "08:00", time.Now())
	require.NoError(t, err)
	_, _, err = svc.CheckIn(ctx, other, userID)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}
