package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
	attendanceRepo "sekolahku_backend/internals/features/school/attendance/repository"
)

var ErrMissingToken = errors.New("token wajib diisi")

// CheckInService menukar token absensi dengan satu baris kehadiran.
type CheckInService struct {
	Store  attendanceRepo.AttendanceStore
	Secret string
	Now    func() time.Time
}

func NewCheckInService(store attendanceRepo.AttendanceStore, secret string) *CheckInService {
	return &CheckInService{
		Store:  store,
		Secret: secret,
		Now:    time.Now,
	}
}

// CheckIn memverifikasi token lalu upsert record kehadiran hari ini.
// created=false artinya occurrence ini sudah pernah dicatat (idempotent
// repeat) — itu sukses, bukan error.
//
// "Hari ini" dinormalisasi ke tengah malam waktu lokal server, mengikuti
// perilaku lama; user menukar token pada hari sesi berlangsung.
func (s *CheckInService) CheckIn(ctx context.Context, tokenString string, userID uuid.UUID) (*attendanceModel.AttendanceRecordModel, bool, error) {
	if tokenString == "" {
		return nil, false, ErrMissingToken
	}

	claims, err := ParseSessionToken(s.Secret, tokenString)
	if err != nil {
		return nil, false, err
	}

	now := s.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	rec := &attendanceModel.AttendanceRecordModel{
		UserID:           userID,
		Date:             date,
		SessionDay:       claims.Day,
		SessionStartTime: claims.StartTime,
		SessionEndTime:   claims.EndTime,
		Status:           attendanceModel.AttendancePresent,
		MarkedBy:         userID, // self check-in
	}

	created, err := s.Store.UpsertIfAbsent(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return nil, false, nil
	}
	return rec, true, nil
}
