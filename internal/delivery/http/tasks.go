package http

import (
	"net/http"

	"golang-monitor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTasks(base *echo.Group) {
	v1 := base.Group("/v1/tasks")
	{
		v1.POST("", h.CreateTask)
		v1.GET("", h.ListTasks)
		v1.GET("/:id", h.GetTask)
		v1.PUT("/:id", h.UpdateTask)
		v1.DELETE("/:id", h.DeleteTask)
	}
}

func (h *HttpAPIHandler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	view, err := h.service.TaskService.Create(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "task created", view)
}

func (h *HttpAPIHandler) ListTasks(c echo.Context) error {
	var q dto.ListTasksQuery
	if err := c.Bind(&q); err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.TaskService.List(c.Request().Context(), &q)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}

func (h *HttpAPIHandler) GetTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	view, err := h.service.TaskService.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", view)
}

func (h *HttpAPIHandler) UpdateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}

	view, err := h.service.TaskService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "task updated", view)
}

func (h *HttpAPIHandler) DeleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.service.TaskService.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "task deleted", nil)
}
