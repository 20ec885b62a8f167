package http

import (
	"net/http"

	"golang-monitor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupNotify(base *echo.Group) {
	v1 := base.Group("/v1/notify")
	{
		v1.POST("/send", h.SendNotification)
		v1.POST("/retry/:id", h.RetryNotification)
		v1.GET("/records", h.ListNotifyRecords)
	}
}

func (h *HttpAPIHandler) SendNotification(c echo.Context) error {
	var req dto.NotifyRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if req.NotifyType == "" {
		req.NotifyType = dto.NotifyTypeCustom
	}

	results, err := h.service.NotifyService.Send(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "notification dispatched", results)
}

func (h *HttpAPIHandler) RetryNotification(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.NotifyService.Retry(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "notification retried", result)
}

func (h *HttpAPIHandler) ListNotifyRecords(c echo.Context) error {
	var q dto.ListNotifyRecordsQuery
	if err := c.Bind(&q); err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.NotifyService.ListRecords(c.Request().Context(), &q)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}
