package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionModel "sekolahku_backend/internals/features/users/sessions/model"
)

// SessionStore adalah kontrak penyimpanan sesi device.
// Service tidak tahu-menahu soal GORM; test pakai fake in-memory.
type SessionStore interface {
	Create(ctx context.Context, s *sessionModel.DeviceSessionModel) error
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListActive urut dari aktivitas paling baru
	ListActive(ctx context.Context, userID uuid.UUID) ([]sessionModel.DeviceSessionModel, error)
	// DeactivateByID scoped ke userID — sesi milik user lain dianggap tidak ada
	DeactivateByID(ctx context.Context, sessionID, userID uuid.UUID) (bool, error)
	// DeactivateAll menonaktifkan semua sesi aktif user; exceptID boleh nil
	DeactivateAll(ctx context.Context, userID uuid.UUID, exceptID *uuid.UUID) (int64, error)
	TouchActivity(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	// DeleteCreatedBefore: retensi 30 hari — sweep pengganti TTL index
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type GormSessionStore struct {
	DB *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{DB: db}
}

func (r *GormSessionStore) Create(ctx context.Context, s *sessionModel.DeviceSessionModel) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormSessionStore) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&sessionModel.DeviceSessionModel{}).
		Where("user_id = ? AND is_active = TRUE", userID).
		Count(&n).Error
	return n, err
}

func (r *GormSessionStore) ListActive(ctx context.Context, userID uuid.UUID) ([]sessionModel.DeviceSessionModel, error) {
	var out []sessionModel.DeviceSessionModel
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND is_active = TRUE", userID).
		Order("last_activity DESC").
		Find(&out).Error
	return out, err
}

func (r *GormSessionStore) DeactivateByID(ctx context.Context, sessionID, userID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&sessionModel.DeviceSessionModel{}).
		Where("id = ? AND user_id = ? AND is_active = TRUE", sessionID, userID).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormSessionStore) DeactivateAll(ctx context.Context, userID uuid.UUID, exceptID *uuid.UUID) (int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&sessionModel.DeviceSessionModel{}).
		Where("user_id = ? AND is_active = TRUE", userID)
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}
	res := q.Update("is_active", false)
	return res.RowsAffected, res.Error
}

// DeactivateByTokenHash dipakai logout: sesi dicari lewat hash token
// yang sedang dipakai, bukan lewat ID.
func (r *GormSessionStore) DeactivateByTokenHash(ctx context.Context, userID uuid.UUID, tokenHash []byte) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&sessionModel.DeviceSessionModel{}).
		Where("user_id = ? AND token_hash = ? AND is_active = TRUE", userID, tokenHash).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindActiveByTokenHash dipakai auth middleware: token hanya sah selama
// sesi device-nya masih aktif.
func (r *GormSessionStore) FindActiveByTokenHash(ctx context.Context, tokenHash []byte) (*sessionModel.DeviceSessionModel, error) {
	var s sessionModel.DeviceSessionModel
	if err := r.DB.WithContext(ctx).
		Where("token_hash = ? AND is_active = TRUE", tokenHash).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSessionStore) TouchActivity(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&sessionModel.DeviceSessionModel{}).
		Where("id = ?", sessionID).
		Update("last_activity", at).Error
}

func (r *GormSessionStore) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&sessionModel.DeviceSessionModel{})
	return res.RowsAffected, res.Error
}

/* ===================== Query khusus admin ===================== */

// UserSessionAggregate dipakai endpoint monitoring admin.
type UserSessionAggregate struct {
	UserID      uuid.UUID `gorm:"column:user_id" json:"user_id"`
	UserName    string    `gorm:"column:user_name" json:"user_name"`
	Role        string    `gorm:"column:role" json:"role"`
	ActiveCount int64     `gorm:"column:active_count" json:"active_count"`
	LastSeen    time.Time `gorm:"column:last_seen" json:"last_seen"`
}

func (r *GormSessionStore) AggregateByUser(ctx context.Context, offset, limit int) ([]UserSessionAggregate, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&sessionModel.DeviceSessionModel{}).
		Where("is_active = TRUE").
		Distinct("user_id").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []UserSessionAggregate
	err := r.DB.WithContext(ctx).
		Table("user_device_sessions AS s").
		Joins("JOIN users u ON u.id = s.user_id").
		Where("s.is_active = TRUE").
		Group("s.user_id, u.user_name, u.role").
		Select("s.user_id AS user_id, u.user_name AS user_name, u.role AS role, COUNT(*) AS active_count, MAX(s.last_activity) AS last_seen").
		Order("last_seen DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}
