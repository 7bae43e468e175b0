package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	// Lewat jalur check-in QR hanya "present" yang bisa terjadi;
	// status lain milik pencatatan manual guru (di luar fitur ini).
	AttendancePresent AttendanceStatus = "present"
)

// AttendanceRecordModel: satu baris per user per occurrence sesi terjadwal.
// Unique index gabungan (user, tanggal, hari, jam mulai, jam selesai) adalah
// alat concurrency control: check-in ganda collapse ke satu baris.
type AttendanceRecordModel struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_occurrence,priority:1;index:idx_attendance_user" json:"user_id"`

	// Tanggal occurrence, dinormalisasi ke tengah malam waktu server
	Date time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_occurrence,priority:2" json:"date"`

	// Descriptor sesi terjadwal (embedded, bukan FK)
	SessionDay       string  `gorm:"size:10;not null;uniqueIndex:uq_attendance_occurrence,priority:3" json:"session_day"`
	SessionStartTime string  `gorm:"size:5;not null;uniqueIndex:uq_attendance_occurrence,priority:4" json:"session_start_time"`
	SessionEndTime   string  `gorm:"size:5;not null;uniqueIndex:uq_attendance_occurrence,priority:5" json:"session_end_time"`
	SessionType      *string `gorm:"size:30" json:"session_type,omitempty"`
	SessionTopic     *string `gorm:"size:255" json:"session_topic,omitempty"`

	Status   AttendanceStatus `gorm:"type:varchar(16);not null;default:'present'" json:"status"`
	MarkedBy uuid.UUID        `gorm:"type:uuid;not null" json:"marked_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}
