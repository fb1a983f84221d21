package httpserver

import (
	"errors"
	"net/http"

	usersvc "cleaning-crm/internal/service/user"
	"github.com/gin-gonic/gin"
)

type staffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) loginUser(c *gin.Context) {
	var req staffLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		abortWith(c, http.StatusBadRequest, "email and password are required")
		return
	}
	sess, err := h.deps.Users.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, usersvc.ErrInvalidCredentials) {
		abortWith(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) createUser(c *gin.Context) {
	var req usersvc.CreateInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.deps.Users.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handlers) listUsers(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.deps.Users.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.deps.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) updateUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		abortWith(c, http.StatusUnauthorized, "User not found in context")
		return
	}
	var req usersvc.UpdateInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.deps.Users.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.deps.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
