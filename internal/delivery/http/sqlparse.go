package http

import (
	"net/http"

	"golang-monitor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSqlParse(base *echo.Group) {
	v1 := base.Group("/v1/sql")
	{
		v1.POST("/parse", h.ParseSQL)
		v1.POST("/preview", h.PreviewSQL)
		v1.POST("/suggest", h.SuggestFieldNames)
	}
}

func (h *HttpAPIHandler) ParseSQL(c echo.Context) error {
	var req dto.SQLParseRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.SqlParseService.Parse(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}

func (h *HttpAPIHandler) PreviewSQL(c echo.Context) error {
	var req dto.SQLPreviewRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.SqlParseService.Preview(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}

func (h *HttpAPIHandler) SuggestFieldNames(c echo.Context) error {
	var req dto.SQLParseRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.SqlParseService.Suggest(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, "ok", result)
}
