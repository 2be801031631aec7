package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/cart/internal/interfaces/http/dto"
)

// Readiness reports whether the cart finished its first hydration
type Readiness interface {
	Hydrated() bool
}

// SystemHandler serves liveness and service information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	readiness Readiness
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler
func NewSystemHandler(name, version string, readiness Readiness) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		readiness: readiness,
		startTime: time.Now(),
	}
}

// SystemInfoResponse is the service information payload
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Hydrated  bool   `json:"hydrated"`
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/ping", h.Ping)
	system.GET("/info", h.GetSystemInfo)
	system.GET("/ready", h.Ready)
}

// GetSystemInfo returns name, version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Hydrated:  h.hydrated(),
	})
}

// Ping answers a liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Ready answers 503 until the first hydration completed
func (h *SystemHandler) Ready(c *gin.Context) {
	if !h.hydrated() {
		h.Error(c, dto.ErrCodeUnavailable, "cart not hydrated yet")
		return
	}
	h.Success(c, gin.H{"ready": true})
}

func (h *SystemHandler) hydrated() bool {
	return h.readiness != nil && h.readiness.Hydrated()
}
