package httpserver

import (
	"net/http"

	employeesvc "cleaning-crm/internal/service/employee"
	"github.com/gin-gonic/gin"
)

func (h *handlers) createEmployee(c *gin.Context) {
	var req employeesvc.Input
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.deps.Employees.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *handlers) listEmployees(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.deps.Employees.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) getEmployee(c *gin.Context) {
	e, err := h.deps.Employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) updateEmployee(c *gin.Context) {
	var req employeesvc.UpdateInput
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.deps.Employees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) deleteEmployee(c *gin.Context) {
	if err := h.deps.Employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createSchedule(c *gin.Context) {
	var req employeesvc.ScheduleCreateInput
	if !bindJSON(c, &req) {
		return
	}
	ws, err := h.deps.Employees.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ws)
}

// listSchedules accepts ?employeeId to narrow the listing.
func (h *handlers) listSchedules(c *gin.Context) {
	page, limit := pageParams(c)
	var employeeID *string
	if id := c.Query("employeeId"); id != "" {
		employeeID = &id
	}
	res, err := h.deps.Employees.ListSchedules(c.Request.Context(), employeeID, page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) getSchedule(c *gin.Context) {
	ws, err := h.deps.Employees.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *handlers) updateSchedule(c *gin.Context) {
	var req employeesvc.ScheduleUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	ws, err := h.deps.Employees.UpdateSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *handlers) deleteSchedule(c *gin.Context) {
	if err := h.deps.Employees.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
