package errs

import "errors"

// Domain sentinel errors for mapping to HTTP codes in handlers.
var (
	ErrDoctorNotAvailable = errors.New("doctor not available")
	ErrCallNotFound       = errors.New("call not found")
	ErrNoActiveRecording  = errors.New("no active recording for room")
)
