package httpserver

import (
	"net/http"
	"strings"

	"cleaning-crm/internal/domain"
	orderrepo "cleaning-crm/internal/repository/order"
	ordersvc "cleaning-crm/internal/service/order"
	"github.com/gin-gonic/gin"
)

func (h *handlers) createCustomerOrder(c *gin.Context) {
	var req ordersvc.CustomerCreateInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.deps.Orders.CreateForCustomer(c.Request.Context(), customerFrom(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerOrder(*created))
}

func (h *handlers) listCustomerOrders(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.deps.Orders.ListForCustomer(c.Request.Context(), c.Param("customerId"), page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, mapPage(res, toCustomerOrder))
}

func (h *handlers) getCustomerOrder(c *gin.Context) {
	o, err := h.deps.Orders.GetForCustomer(c.Request.Context(), c.Param("customerId"), c.Param("cleaningOrderId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerOrder(*o))
}

func (h *handlers) updateCustomerOrder(c *gin.Context) {
	var req ordersvc.CustomerUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.deps.Orders.UpdateForCustomer(c.Request.Context(), c.Param("customerId"), c.Param("cleaningOrderId"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerOrder(*o))
}

func (h *handlers) createCRMOrder(c *gin.Context) {
	var req ordersvc.CRMCreateInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.deps.Orders.CreateForCRM(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toCRMOrder(*created))
}

// listCRMOrders accepts ?customerId, ?status, ?sortField and ?sortOrder
// (asc|desc) on top of pagination.
func (h *handlers) listCRMOrders(c *gin.Context) {
	page, limit := pageParams(c)
	f := ordersvc.CRMFilter{
		Status:    domain.OrderStatus(c.Query("status")),
		SortField: orderrepo.SortField(c.Query("sortField")),
	}
	if id := c.Query("customerId"); id != "" {
		f.CustomerID = &id
	}
	switch strings.ToLower(c.Query("sortOrder")) {
	case "", "desc":
	case "asc":
		f.Ascending = true
	default:
		abortWith(c, http.StatusBadRequest, "Invalid sort order")
		return
	}
	res, err := h.deps.Orders.ListForCRM(c.Request.Context(), f, page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, mapPage(res, toCRMOrder))
}

func (h *handlers) getCRMOrder(c *gin.Context) {
	o, err := h.deps.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCRMOrder(*o))
}

func (h *handlers) updateCRMOrder(c *gin.Context) {
	var req ordersvc.CRMUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.deps.Orders.UpdateForCRM(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCRMOrder(*o))
}

func (h *handlers) deleteCRMOrder(c *gin.Context) {
	if err := h.deps.Orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
