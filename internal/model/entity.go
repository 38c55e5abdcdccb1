package model

import "time"

// CallRecord is the call journal entity (GORM). One row per dispatched call;
// status moves ringing -> active -> finished.
type CallRecord struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomID          string     `gorm:"type:uuid;not null;uniqueIndex"`
	DoctorID        string     `gorm:"size:64;not null;index"`
	Status          string     `gorm:"size:20;not null;default:ringing"` // ringing, active, finished
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
	AcceptedAt      *time.Time `gorm:"column:accepted_at"`
	FinishedAt      *time.Time `gorm:"column:finished_at"`
	DurationSeconds int        `gorm:"not null;default:0"`
	RecordingPath   string     `gorm:"size:512;not null;default:''"`
}

func (CallRecord) TableName() string { return "call_records" }
