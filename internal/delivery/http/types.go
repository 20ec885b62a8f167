package http

import (
	"net/http"

	"golang-monitor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTypes(base *echo.Group) {
	v1 := base.Group("/v1/types")
	{
		v1.POST("", h.CreateType)
		v1.POST("/import", h.ImportTypes)
		v1.GET("", h.ListTypes)
		v1.GET("/:id", h.GetType)
		v1.PUT("/:id", h.UpdateType)
		v1.DELETE("/:id", h.DeleteType)
	}
}

func (h *HttpAPIHandler) CreateType(c echo.Context) error {
	var req dto.CreateTypeRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	view, err := h.service.TypeService.Create(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "type created", view)
}

func (h *HttpAPIHandler) ImportTypes(c echo.Context) error {
	var reqs []dto.CreateTypeRequest
	if err := c.Bind(&reqs); err != nil {
		return h.fail(c, err)
	}
	for i := range reqs {
		if err := h.validator.Struct(&reqs[i]); err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
	}

	count, err := h.service.TypeService.Import(c.Request().Context(), reqs)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "types imported", map[string]int{"imported": count})
}

func (h *HttpAPIHandler) ListTypes(c echo.Context) error {
	var q dto.ListTypesQuery
	if err := c.Bind(&q); err != nil {
		return h.fail(c, err)
	}

	result, err := h.service.TypeService.List(c.Request().Context(), &q)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}

func (h *HttpAPIHandler) GetType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	view, err := h.service.TypeService.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", view)
}

func (h *HttpAPIHandler) UpdateType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req dto.UpdateTypeRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}

	view, err := h.service.TypeService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "type updated", view)
}

func (h *HttpAPIHandler) DeleteType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.service.TypeService.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "type deleted", nil)
}
