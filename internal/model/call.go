package model

import "time"

// CallStatus represents call lifecycle state in the journal.
type CallStatus string

const (
	CallStatusRinging  CallStatus = "ringing"
	CallStatusActive   CallStatus = "active"
	CallStatusFinished CallStatus = "finished"
)

// Call is the API view of a journaled call (not the GORM entity).
type Call struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"room_id"`
	DoctorID        string     `json:"doctor_id"`
	Status          CallStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	RecordingPath   string     `json:"recording_path,omitempty"`
}

// DispatchCallRequest is the request body for POST /calls.
type DispatchCallRequest struct {
	DoctorID string `json:"doctor_id" binding:"required"`
}

// DispatchCallResponse is the response for POST /calls.
type DispatchCallResponse struct {
	RoomID string `json:"room_id"`
	WSURL  string `json:"ws_url"`
	Status string `json:"status"`
}

// OnlineDoctorsResponse is the response for GET /doctors/online.
type OnlineDoctorsResponse struct {
	Doctors []string `json:"doctors"`
}

// ActiveRecordingsResponse is the response for GET /recordings/active.
type ActiveRecordingsResponse struct {
	Rooms []string `json:"rooms"`
}

// RecordingControlResponse is the response for POST /recordings/:room_id/:action.
type RecordingControlResponse struct {
	RoomID        string `json:"room_id"`
	Status        string `json:"status"`
	RecordingPath string `json:"recording_path,omitempty"`
}
