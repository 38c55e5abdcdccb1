package service

import (
	"go.uber.org/zap"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/model"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/registry"
)

// CallDispatcher routes a patient's call request to the target doctor's live
// connection. Best-effort, single attempt: no queueing, no retry.
type CallDispatcher struct {
	registry *registry.Registry
	log      *zap.Logger
}

// NewCallDispatcher creates a dispatcher over the doctor registry.
func NewCallDispatcher(reg *registry.Registry, log *zap.Logger) *CallDispatcher {
	return &CallDispatcher{registry: reg, log: log}
}

// Dispatch pushes an incoming-call event for roomID to the doctor's
// connection. Returns false when the doctor is not currently connected.
func (d *CallDispatcher) Dispatch(doctorID, roomID string) bool {
	c, ok := d.registry.Lookup(doctorID)
	if !ok {
		d.log.Info("call dispatch failed, doctor offline",
			zap.String("doctor_id", doctorID),
			zap.String("room_id", roomID))
		return false
	}
	raw, err := model.Event{Kind: model.EventIncomingCall, RoomID: roomID}.Marshal()
	if err != nil {
		d.log.Error("marshal incoming-call", zap.Error(err))
		return false
	}
	if !c.Deliver(raw) {
		// At-most-once: a full buffer drops the notification.
		d.log.Warn("incoming-call push dropped, buffer full",
			zap.String("doctor_id", doctorID),
			zap.String("room_id", roomID))
	}
	d.log.Info("call dispatched",
		zap.String("doctor_id", doctorID),
		zap.String("room_id", roomID))
	return true
}
