package dto

import (
	"time"

	"github.com/google/uuid"

	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
)

// CheckInRequest: body POST /api/u/attendance/check-in
type CheckInRequest struct {
	Token string `json:"token" validate:"required"`
}

type AttendanceSessionResponse struct {
	Day       string  `json:"day"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Type      *string `json:"type,omitempty"`
	Topic     *string `json:"topic,omitempty"`
}

type AttendanceRecordResponse struct {
	ID        uuid.UUID                 `json:"id"`
	UserID    uuid.UUID                 `json:"user_id"`
	Date      time.Time                 `json:"date"`
	Session   AttendanceSessionResponse `json:"session"`
	Status    string                    `json:"status"`
	MarkedBy  uuid.UUID                 `json:"marked_by"`
	CreatedAt time.Time                 `json:"created_at"`
}

func FromAttendanceRecordModel(m attendanceModel.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:     m.ID,
		UserID: m.UserID,
		Date:   m.Date,
		Session: AttendanceSessionResponse{
			Day:       m.SessionDay,
			StartTime: m.SessionStartTime,
			EndTime:   m.SessionEndTime,
			Type:      m.SessionType,
			Topic:     m.SessionTopic,
		},
		Status:    string(m.Status),
		MarkedBy:  m.MarkedBy,
		CreatedAt: m.CreatedAt,
	}
}

func FromAttendanceRecordModels(ms []attendanceModel.AttendanceRecordModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromAttendanceRecordModel(m))
	}
	return out
}
