package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"healthcare-appointments-api/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	users *service.Users
	docs  *service.Doctors
	appts *service.Appointments
	db    Pinger
	log   zerolog.Logger
}

func New(users *service.Users, docs *service.Doctors, appts *service.Appointments, db Pinger, log zerolog.Logger) *Handler {
	return &Handler{users: users, docs: docs, appts: appts, db: db, log: log}
}

// Routes mounts the API on r. authMW runs in front of signup and login only.
func (h *Handler) Routes(r gin.IRouter, authMW ...gin.HandlerFunc) {
	r.GET("/health", h.health)

	api := r.Group("/api")

	authRoutes := api.Group("/auth", authMW...)
	authRoutes.POST("/signup", h.signup)
	authRoutes.POST("/login", h.login)

	api.GET("/users/:id", h.getUser)
	api.GET("/specializations", h.listSpecializations)

	api.GET("/doctors", h.listDoctors)
	api.GET("/doctors/:id", h.getDoctor)
	api.PUT("/doctors/:id/profile", h.updateProfile)
	api.GET("/doctors/:id/availability", h.listAvailability)
	api.POST("/doctors/:id/availability", h.addAvailability)
	api.POST("/doctors/:id/specializations", h.addSpecialization)
	api.GET("/doctors/:id/appointments", h.doctorAppointments)

	api.GET("/patients/:id/appointments", h.patientAppointments)
	api.POST("/appointments/book", h.book)
}

type idParam struct {
	ID uint `uri:"id" binding:"required"`
}

// pathID binds :id, writing 400 and returning false when it is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		c.String(http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return p.ID, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// fail writes err as a plain text response.
func (h *Handler) fail(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.KindNotFound:
		c.String(http.StatusNotFound, err.Error())
	case service.KindConflict:
		c.String(http.StatusConflict, err.Error())
	case service.KindValidation:
		c.String(http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.String(http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
