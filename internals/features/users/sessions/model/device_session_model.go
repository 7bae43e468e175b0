package model

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DeviceSessionModel adalah satu baris per device yang sedang login.
// Token akses disimpan sebagai HMAC hash (bukan plaintext); hash ini unik
// sehingga satu token selalu menunjuk tepat satu sesi.
type DeviceSessionModel struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_device_sessions_user" json:"user_id"`

	TokenHash []byte `gorm:"type:bytea;not null;uniqueIndex:uq_device_sessions_token" json:"-"`

	// Metadata device — deskriptif saja, bukan untuk otorisasi
	DeviceID   *string        `gorm:"size:100" json:"device_id,omitempty"`
	DeviceName *string        `gorm:"size:100" json:"device_name,omitempty"`
	UserAgent  *string        `gorm:"type:text" json:"user_agent,omitempty"`
	IPAddress  *string        `gorm:"size:45" json:"ip_address,omitempty"`
	Location   datatypes.JSON `gorm:"type:jsonb" json:"location,omitempty"`

	IsActive     bool      `gorm:"not null;default:true;index:idx_device_sessions_active" json:"is_active"`
	LastActivity time.Time `gorm:"not null" json:"last_activity"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DeviceSessionModel) TableName() string {
	return "user_device_sessions"
}

// ComputeTokenHash menghasilkan HMAC-SHA256 dari token akses.
// Dipakai saat create (login) dan lookup (auth middleware / logout).
func ComputeTokenHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}
