package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
)

// AttendanceStore: ledger kehadiran.
type AttendanceStore interface {
	// UpsertIfAbsent mencoba insert record; kalau occurrence yang sama sudah
	// tercatat untuk user tsb, TIDAK membuat baris baru dan mengembalikan
	// created=false. Duplicate-key dari insert yang balapan diperlakukan
	// sebagai created=false di dalam store — caller tidak pernah melihat
	// conflict error, dan pelanggaran integritas lain tetap muncul sebagai
	// error biasa.
	UpsertIfAbsent(ctx context.Context, rec *attendanceModel.AttendanceRecordModel) (created bool, err error)

	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]attendanceModel.AttendanceRecordModel, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type GormAttendanceStore struct {
	DB *gorm.DB
}

func NewGormAttendanceStore(db *gorm.DB) *GormAttendanceStore {
	return &GormAttendanceStore{DB: db}
}

func (r *GormAttendanceStore) UpsertIfAbsent(ctx context.Context, rec *attendanceModel.AttendanceRecordModel) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "date"},
				{Name: "session_day"}, {Name: "session_start_time"}, {Name: "session_end_time"},
			},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		// Fallback: sebagian setup tetap melempar duplicate key walau DO NOTHING
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormAttendanceStore) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]attendanceModel.AttendanceRecordModel, int64, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var out []attendanceModel.AttendanceRecordModel
	err = r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, session_start_time DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, total, err
}

func (r *GormAttendanceStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceRecordModel{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}
