package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/login
func (h Handler) Login(c *gin.Context) {
	var req loginPayload
	if err := bindJSON(c, &req); err != nil {
		RespondDomainError(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
