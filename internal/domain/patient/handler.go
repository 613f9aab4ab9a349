package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tabib/tabib/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.Group("", auth.RequireRole(auth.RolePatient)).
		GET("/patients/profile", h.Portal)
}

func (h *Handler) Portal(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())

	portal, err := h.svc.Portal(c.Request().Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, portal)
}
