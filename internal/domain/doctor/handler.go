package doctor

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tabib/tabib/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.GET("/doctors", h.Search)
	public.GET("/doctors/:id", h.Get)

	doctorOnly := authed.Group("", auth.RequireRole(auth.RoleDoctor))
	doctorOnly.GET("/doctors/profile", h.Dashboard)
	doctorOnly.PUT("/doctors/profile", h.UpdateProfile)
}

func (h *Handler) Search(c echo.Context) error {
	cards, err := h.svc.Search(c.Request().Context(), c.QueryParam("search"), c.QueryParam("city"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, cards)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	card, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) Dashboard(c echo.Context) error {
	id, _ := auth.IdentityFromContext(c.Request().Context())
	dash, err := h.svc.Dashboard(c.Request().Context(), id.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dash)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	id, _ := auth.IdentityFromContext(c.Request().Context())

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.svc.UpdateProfile(c.Request().Context(), id.UserID, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor profile not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}
