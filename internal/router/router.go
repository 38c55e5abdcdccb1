package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/handler"
	"github.com/AdityaKulkarniXD/webdoc-sub000/pkg/constants"
)

// New builds the HTTP router.
func New(
	callHandler *handler.CallHandler,
	signalWS *handler.SignalWSHandler,
	health *handler.HealthHandler,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	// REST calls
	calls := r.Group("/calls")
	{
		calls.POST("", callHandler.DispatchCall)
		calls.GET("/:room_id", callHandler.GetCall)
	}

	r.GET("/doctors/online", callHandler.OnlineDoctors)

	recordings := r.Group("/recordings")
	{
		recordings.GET("/active", callHandler.ActiveRecordings)
		recordings.POST("/:room_id/:action", callHandler.RecordingControl)
	}

	// WebSocket: /ws/signal
	r.GET("/ws/signal", signalWS.ServeWS)

	return r
}
