package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/constants"
	sessionModel "sekolahku_backend/internals/features/users/sessions/model"
	sessionRepo "sekolahku_backend/internals/features/users/sessions/repository"
)

// DeviceSessionService membungkus SessionStore dengan kebijakan batas sesi
// per role. Enforcement-nya advisory: dicek saat login, bukan atomik —
// dua login bersamaan bisa sama-sama lolos (lihat catatan di EnforceLimit).
type DeviceSessionService struct {
	Store sessionRepo.SessionStore
	Now   func() time.Time
}

func NewDeviceSessionService(store sessionRepo.SessionStore) *DeviceSessionService {
	return &DeviceSessionService{
		Store: store,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *DeviceSessionService) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.Store.CountActive(ctx, userID)
}

// ListActive urut dari aktivitas paling baru.
func (s *DeviceSessionService) ListActive(ctx context.Context, userID uuid.UUID) ([]sessionModel.DeviceSessionModel, error) {
	return s.Store.ListActive(ctx, userID)
}

// MaxSessionsFor mengembalikan batas sesi dari tabel kebijakan per role.
func (s *DeviceSessionService) MaxSessionsFor(role string) int {
	return constants.SessionCapForRole(role)
}

// EnforceLimit dipanggil saat login SEBELUM sesi baru dibuat. Kalau jumlah
// sesi aktif sudah >= maxSessions, sesi paling lama (berdasarkan
// last_activity) dinonaktifkan sampai tersisa ruang untuk satu sesi baru.
// Mengembalikan daftar sesi yang ditendang.
//
// Evict lalu create adalah dua operasi terpisah, bukan transaksi; crash di
// antaranya meninggalkan user tanpa sesi aktif dan sembuh sendiri di login
// berikutnya.
func (s *DeviceSessionService) EnforceLimit(ctx context.Context, userID uuid.UUID, maxSessions int) ([]sessionModel.DeviceSessionModel, error) {
	if maxSessions < 1 {
		maxSessions = 1
	}

	active, err := s.Store.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(active) < maxSessions {
		return nil, nil
	}

	// ListActive urut terbaru duluan; korban eviction diambil dari ekor.
	toEvict := len(active) - maxSessions + 1
	evicted := make([]sessionModel.DeviceSessionModel, 0, toEvict)
	for i := len(active) - 1; i >= 0 && len(evicted) < toEvict; i-- {
		ok, err := s.Store.DeactivateByID(ctx, active[i].ID, userID)
		if err != nil {
			return evicted, err
		}
		if ok {
			evicted = append(evicted, active[i])
		}
	}
	return evicted, nil
}

// Deactivate menonaktifkan satu sesi milik requestingUserID.
// Sesi user lain sengaja dilaporkan "tidak ada" — ini batas otorisasi,
// bukan sekadar lookup.
func (s *DeviceSessionService) Deactivate(ctx context.Context, sessionID, requestingUserID uuid.UUID) (bool, error) {
	return s.Store.DeactivateByID(ctx, sessionID, requestingUserID)
}

// DeactivateAll menonaktifkan semua sesi aktif user ("log out everywhere").
// exceptID != nil dipakai untuk "semua kecuali sesi ini".
func (s *DeviceSessionService) DeactivateAll(ctx context.Context, userID uuid.UUID, exceptID *uuid.UUID) (int64, error) {
	return s.Store.DeactivateAll(ctx, userID, exceptID)
}

// Touch memperbarui last_activity sesi yang dipakai request ini.
func (s *DeviceSessionService) Touch(ctx context.Context, sessionID uuid.UUID) error {
	return s.Store.TouchActivity(ctx, sessionID, s.Now())
}

// Stats untuk endpoint /sessions/stats.
type SessionStats struct {
	Active    int64 `json:"active"`
	Max       int   `json:"max"`
	Remaining int64 `json:"remaining"`
}

func (s *DeviceSessionService) Stats(ctx context.Context, userID uuid.UUID, role string) (SessionStats, error) {
	n, err := s.Store.CountActive(ctx, userID)
	if err != nil {
		return SessionStats{}, err
	}
	max := s.MaxSessionsFor(role)
	remaining := int64(max) - n
	if remaining < 0 {
		remaining = 0
	}
	return SessionStats{Active: n, Max: max, Remaining: remaining}, nil
}
