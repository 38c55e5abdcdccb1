package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/errs"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/model"
)

// CallService journals call lifecycle rows. It implements CallJournal for the
// hub; journal writes are best-effort and never affect signaling.
type CallService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCallService creates a call journal service.
func NewCallService(db *gorm.DB, log *zap.Logger) *CallService {
	return &CallService{db: db, log: log}
}

// Create journals a dispatched call in ringing state.
func (s *CallService) Create(roomID, doctorID string) error {
	ent := &model.CallRecord{
		ID:       uuid.New().String(),
		RoomID:   roomID,
		DoctorID: doctorID,
		Status:   string(model.CallStatusRinging),
	}
	return s.db.Create(ent).Error
}

// Get returns the journaled call for a room.
func (s *CallService) Get(roomID string) (*model.Call, error) {
	var ent model.CallRecord
	if err := s.db.Where("room_id = ?", roomID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCallNotFound
		}
		return nil, err
	}
	return entityToCall(&ent), nil
}

// CallAccepted marks the call active. Part of the hub's CallJournal.
func (s *CallService) CallAccepted(roomID string) {
	now := time.Now()
	err := s.db.Model(&model.CallRecord{}).
		Where("room_id = ?", roomID).
		Updates(map[string]interface{}{
			"status":      string(model.CallStatusActive),
			"accepted_at": now,
		}).Error
	if err != nil {
		s.log.Warn("journal: mark call accepted failed",
			zap.String("room_id", roomID), zap.Error(err))
	}
}

// CallEnded marks the call finished and stores duration and the recording
// path, if any. Part of the hub's CallJournal.
func (s *CallService) CallEnded(roomID, recordingPath string) {
	var ent model.CallRecord
	if err := s.db.Where("room_id = ?", roomID).First(&ent).Error; err != nil {
		s.log.Warn("journal: call lookup failed",
			zap.String("room_id", roomID), zap.Error(err))
		return
	}
	now := time.Now()
	duration := 0
	if ent.AcceptedAt != nil {
		duration = int(now.Sub(*ent.AcceptedAt) / time.Second)
	}
	err := s.db.Model(&ent).Updates(map[string]interface{}{
		"status":           string(model.CallStatusFinished),
		"finished_at":      now,
		"duration_seconds": duration,
		"recording_path":   recordingPath,
	}).Error
	if err != nil {
		s.log.Warn("journal: mark call ended failed",
			zap.String("room_id", roomID), zap.Error(err))
	}
}

func entityToCall(ent *model.CallRecord) *model.Call {
	return &model.Call{
		ID:              ent.ID,
		RoomID:          ent.RoomID,
		DoctorID:        ent.DoctorID,
		Status:          model.CallStatus(ent.Status),
		CreatedAt:       ent.CreatedAt,
		AcceptedAt:      ent.AcceptedAt,
		FinishedAt:      ent.FinishedAt,
		DurationSeconds: ent.DurationSeconds,
		RecordingPath:   ent.RecordingPath,
	}
}
