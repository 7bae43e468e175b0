package dto

import (
	"time"

	"github.com/google/uuid"

	sessionModel "sekolahku_backend/internals/features/users/sessions/model"
)

// DeviceSessionResponse: bentuk aman untuk client (tanpa token hash).
type DeviceSessionResponse struct {
	ID           uuid.UUID `json:"id"`
	DeviceID     *string   `json:"device_id,omitempty"`
	DeviceName   *string   `json:"device_name,omitempty"`
	UserAgent    *string   `json:"user_agent,omitempty"`
	IPAddress    *string   `json:"ip_address,omitempty"`
	IsCurrent    bool      `json:"is_current"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromDeviceSessionModel(m sessionModel.DeviceSessionModel, currentID uuid.UUID) DeviceSessionResponse {
	return DeviceSessionResponse{
		ID:           m.ID,
		DeviceID:     m.DeviceID,
		DeviceName:   m.DeviceName,
		UserAgent:    m.UserAgent,
		IPAddress:    m.IPAddress,
		IsCurrent:    m.ID == currentID,
		LastActivity: m.LastActivity,
		CreatedAt:    m.CreatedAt,
	}
}

func FromDeviceSessionModels(ms []sessionModel.DeviceSessionModel, currentID uuid.UUID) []DeviceSessionResponse {
	out := make([]DeviceSessionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromDeviceSessionModel(m, currentID))
	}
	return out
}
