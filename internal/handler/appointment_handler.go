package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthcare-appointments-api/internal/service"
)

// book answers 200 with an empty body.
func (h *Handler) book(c *gin.Context) {
	var in service.BookInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.appts.Book(c.Request.Context(), in); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) patientAppointments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	as, err := h.appts.ForPatient(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

func (h *Handler) doctorAppointments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	as, err := h.appts.ForDoctor(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}
