package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthcare-appointments-api/internal/service"
)

func (h *Handler) signup(c *gin.Context) {
	var in service.SignupInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.users.Signup(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) login(c *gin.Context) {
	var in service.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
