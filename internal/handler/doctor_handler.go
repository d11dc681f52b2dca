package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthcare-appointments-api/internal/service"
)

func (h *Handler) listDoctors(c *gin.Context) {
	ds, err := h.docs.List(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (h *Handler) getDoctor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) updateProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := h.docs.UpdateProfile(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) listAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	slots, err := h.docs.Availability(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) addAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.SlotInput
	if !bindJSON(c, &in) {
		return
	}
	slot, err := h.docs.AddAvailability(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (h *Handler) addSpecialization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.SpecializationInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.docs.AddSpecialization(c.Request.Context(), id, in); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) listSpecializations(c *gin.Context) {
	sps, err := h.docs.Specializations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sps)
}
