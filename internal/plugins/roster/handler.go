package roster

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lectern-app/lectern/internal/apperror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListInstructors(c echo.Context) error {
	list, err := h.service.ListInstructors(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "instructors": list})
}

func (h *Handler) GetInstructor(c echo.Context) error {
	inst, err := h.service.GetInstructor(c.Request().Context(), c.Param("email"))
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "instructor": inst})
}

func (h *Handler) ListApplicants(c echo.Context) error {
	list, err := h.service.ListApplicants(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "applicants": list})
}

func (h *Handler) UpdateApplicantStatus(c echo.Context) error {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil || row < applicantsFirstRow {
		return errJSON(c, apperror.NewBadRequest("invalid applicant row"))
	}
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperror.NewBadRequest("invalid request body"))
	}
	if err := h.service.UpdateApplicantStatus(c.Request().Context(), row, req.Status); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func errJSON(c echo.Context, err error) error {
	return c.JSON(apperror.SafeCode(err), map[string]string{"error": apperror.SafeMessage(err)})
}
