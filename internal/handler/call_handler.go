package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/errs"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/model"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/recording"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/registry"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/service"
)

// CallHandler handles the REST API: call dispatch, presence, recording control.
type CallHandler struct {
	dispatcher *service.CallDispatcher
	calls      *service.CallService
	registry   *registry.Registry
	recorder   *recording.Tracker
	cfg        *service.WSConfig
	logger     *zap.Logger
}

// NewCallHandler creates the call REST handler.
func NewCallHandler(
	dispatcher *service.CallDispatcher,
	calls *service.CallService,
	reg *registry.Registry,
	rec *recording.Tracker,
	wsBaseURL string,
	logger *zap.Logger,
) *CallHandler {
	return &CallHandler{
		dispatcher: dispatcher,
		calls:      calls,
		registry:   reg,
		recorder:   rec,
		cfg:        &service.WSConfig{BaseURL: wsBaseURL},
		logger:     logger,
	}
}

// DispatchCall godoc
// POST /calls
// Generates a fresh room id and pushes incoming-call to the doctor's live
// connection; 404 when the doctor is not connected.
func (h *CallHandler) DispatchCall(c *gin.Context) {
	var req model.DispatchCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	roomID := uuid.New().String()
	if !h.dispatcher.Dispatch(req.DoctorID, roomID) {
		c.JSON(http.StatusNotFound, gin.H{"error": errs.ErrDoctorNotAvailable.Error()})
		return
	}
	if err := h.calls.Create(roomID, req.DoctorID); err != nil {
		h.logger.Warn("journal: create call failed",
			zap.String("room_id", roomID), zap.Error(err))
	}
	c.JSON(http.StatusAccepted, model.DispatchCallResponse{
		RoomID: roomID,
		WSURL:  h.cfg.WSURL(),
		Status: string(model.CallStatusRinging),
	})
}

// GetCall godoc
// GET /calls/:room_id
func (h *CallHandler) GetCall(c *gin.Context) {
	roomID := c.Param("room_id")
	call, err := h.calls.Get(roomID)
	if err != nil {
		if errors.Is(err, errs.ErrCallNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get call"})
		return
	}
	c.JSON(http.StatusOK, call)
}

// OnlineDoctors godoc
// GET /doctors/online
func (h *CallHandler) OnlineDoctors(c *gin.Context) {
	c.JSON(http.StatusOK, model.OnlineDoctorsResponse{Doctors: h.registry.List()})
}

// ActiveRecordings godoc
// GET /recordings/active
func (h *CallHandler) ActiveRecordings(c *gin.Context) {
	c.JSON(http.StatusOK, model.ActiveRecordingsResponse{Rooms: h.recorder.ListActive()})
}

// RecordingControl godoc
// POST /recordings/:room_id/:action — manual start/stop for operational use.
func (h *CallHandler) RecordingControl(c *gin.Context) {
	roomID := c.Param("room_id")
	switch c.Param("action") {
	case "start":
		h.recorder.Start(roomID)
		c.JSON(http.StatusOK, model.RecordingControlResponse{RoomID: roomID, Status: "started"})
	case "stop":
		if !h.recorder.IsActive(roomID) {
			c.JSON(http.StatusNotFound, gin.H{"error": errs.ErrNoActiveRecording.Error()})
			return
		}
		path, err := h.recorder.Stop(roomID)
		if err != nil {
			h.logger.Error("recording finalize failed",
				zap.String("room_id", roomID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to finalize recording"})
			return
		}
		c.JSON(http.StatusOK, model.RecordingControlResponse{
			RoomID:        roomID,
			Status:        "stopped",
			RecordingPath: path,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be start or stop"})
	}
}
