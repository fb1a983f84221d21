package httpserver

import (
	"errors"
	"net/http"

	customersvc "cleaning-crm/internal/service/customer"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlers) registerCustomer(c *gin.Context) {
	var req customersvc.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.deps.Customers.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *handlers) loginCustomer(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		abortWith(c, http.StatusBadRequest, "username and password are required")
		return
	}
	sess, err := h.deps.Customers.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, customersvc.ErrInvalidCredentials) {
		abortWith(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
