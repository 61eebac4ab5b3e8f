package files

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download streams the file as an attachment.
func (h *Handler) Download(c echo.Context) error {
	meta, body, err := h.service.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(apperror.SafeCode(err), map[string]string{"error": apperror.SafeMessage(err)})
	}
	defer body.Close()

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, meta.Name))
	return c.Stream(http.StatusOK, contentType, body)
}
