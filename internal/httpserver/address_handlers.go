package httpserver

import (
	"net/http"

	addresssvc "cleaning-crm/internal/service/address"
	"github.com/gin-gonic/gin"
)

// Address routes are shared by the customer API and the CRM; both address
// the customer through :customerId.

func (h *handlers) createAddress(c *gin.Context) {
	var req addresssvc.Input
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.deps.Addresses.Create(c.Request.Context(), c.Param("customerId"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *handlers) listAddresses(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.deps.Addresses.List(c.Request.Context(), c.Param("customerId"), page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) getAddress(c *gin.Context) {
	a, err := h.deps.Addresses.Get(c.Request.Context(), c.Param("customerId"), c.Param("addressId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) updateAddress(c *gin.Context) {
	var req addresssvc.UpdateInput
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.deps.Addresses.Update(c.Request.Context(), c.Param("customerId"), c.Param("addressId"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) setDefaultAddress(c *gin.Context) {
	ctx := c.Request.Context()
	customerID, addressID := c.Param("customerId"), c.Param("addressId")
	if err := h.deps.Addresses.SetDefault(ctx, customerID, addressID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	a, err := h.deps.Addresses.Get(ctx, customerID, addressID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
