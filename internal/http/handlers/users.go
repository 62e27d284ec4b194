package handlers

import (
	"net/http"

	"tiketbus/internal/domain"
	"tiketbus/internal/http/middleware"
	"tiketbus/internal/services"

	"github.com/gin-gonic/gin"
)

// userInput drops a requested role unless the caller may grant it.
func (h Handler) userInput(c *gin.Context, p userPayload) services.UserInput {
	in := p.toInput()
	if !h.EnforceAdminAuth {
		return in
	}
	if rc, ok := middleware.CurrentUser(c); !ok || rc.Role != domain.RoleAdmin {
		in.Role = nil
	}
	return in
}

// GET /api/users?email=
func (h Handler) ListUsers(c *gin.Context) {
	out, err := h.Users.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handler) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handler) CreateUser(c *gin.Context) {
	var p userPayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	u, err := h.Users.Create(c.Request.Context(), h.userInput(c, p))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PATCH /api/users/:id ignores password.
func (h Handler) UpdateUser(c *gin.Context) {
	var p userPayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	u, err := h.Users.Update(c.Request.Context(), c.Param("id"), h.userInput(c, p))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handler) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	noContent(c)
}
