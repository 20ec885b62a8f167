package http

import (
	"context"
	"net/http"
	"strconv"

	"golang-monitor/internal/dto"
	"golang-monitor/internal/service"
	"golang-monitor/pkg/errs"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupExecute(base)
	h.SetupTasks(base)
	h.SetupTypes(base)
	h.SetupNotify(base)
	h.SetupSqlParse(base)
}

// fail maps the error taxonomy onto HTTP status codes.
func (h *HttpAPIHandler) fail(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errs.IsNotFound(err):
		code = http.StatusNotFound
	case errs.IsValidation(err):
		code = http.StatusBadRequest
	}
	return c.JSON(code, dto.NewBaseResponse(code, err.Error(), nil))
}

func (h *HttpAPIHandler) ok(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(message, data))
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errs.NewValidation("invalid id")
	}
	return uint(id), nil
}

func strconvAtoiDefault(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback, err
	}
	return n, nil
}
