package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tabib/tabib/internal/platform/auth"
	"github.com/tabib/tabib/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	authed.GET("/appointments", h.List)
	authed.PUT("/appointments/:id", h.UpdateStatus)
	authed.DELETE("/appointments/:id", h.Delete)

	doctorOnly := authed.Group("", auth.RequireRole(auth.RoleDoctor))
	doctorOnly.GET("/doctors/consultation-requests", h.ConsultationRequests)
	doctorOnly.PUT("/doctors/consultation-requests/:id", h.ResolveRequest)
}

// httpError maps domain errors onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotAllowed):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Book(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())

	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.Book(c.Request().Context(), ident.UserID, in)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrDoctorNotFound) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())
	pg := pagination.FromContext(c)

	res, err := h.svc.List(c.Request().Context(), ident, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	if res.AsDoctor != nil {
		return c.JSON(http.StatusOK, pagination.NewResponse(res.AsDoctor, res.Total, pg.Limit, pg.Offset))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(res.AsPatient, res.Total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.UpdateStatus(c.Request().Context(), ident, id, body.Status)
	if err != nil {
		if !body.Status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	if err := h.svc.Remove(c.Request().Context(), ident, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ConsultationRequests(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())

	items, err := h.svc.ConsultationRequests(c.Request().Context(), ident.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ResolveRequest(c echo.Context) error {
	ident, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.ResolveRequest(c.Request().Context(), ident.UserID, id, body.Action)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotAllowed), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrDoctorNotFound):
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
