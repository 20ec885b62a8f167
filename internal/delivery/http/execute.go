package http

import (
	"net/http"

	"golang-monitor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupExecute(base *echo.Group) {
	v1 := base.Group("/v1/execute")
	{
		v1.POST("/verify/:id", h.VerifyTask)
		v1.POST("/run", h.ExecuteTask)
		v1.POST("/run/:id", h.RunTaskNow)
		v1.GET("/logs", h.ListExecutionLogs)
		v1.GET("/results/:id", h.ListExecutionResults)
		v1.GET("/results/:id/latest", h.LatestExecutionResult)
	}
}

// VerifyTask dry-runs a task without persisting anything.
func (h *HttpAPIHandler) VerifyTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.ExecuteService.Verify(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "verify completed", result)
}

func (h *HttpAPIHandler) ExecuteTask(c echo.Context) error {
	var req dto.ExecuteRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if req.Trigger == "" {
		req.Trigger = dto.TriggerAPI
	}

	result, err := h.service.ExecuteService.Execute(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "task executed", result)
}

func (h *HttpAPIHandler) RunTaskNow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.SchedulerService.RunTaskNow(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "task executed", result)
}

func (h *HttpAPIHandler) ListExecutionLogs(c echo.Context) error {
	var q dto.ExecutionLogQuery
	if err := c.Bind(&q); err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.ExecuteService.ListLogs(c.Request().Context(), &q)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}

func (h *HttpAPIHandler) ListExecutionResults(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	limit, _ := strconvAtoiDefault(c.QueryParam("limit"), 20)

	results, err := h.service.ExecuteService.ListResults(c.Request().Context(), id, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", results)
}

func (h *HttpAPIHandler) LatestExecutionResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.ExecuteService.LatestResult(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}
