package reservation

import (
	"errors"
	"net/http"

	"servicebook/internal/domain"
	"servicebook/internal/middleware"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the handler on groups already guarded by role
// middleware. Nil groups are skipped.
func (h *Handler) RegisterRoutes(client, professional, admin *gin.RouterGroup) {
	if client != nil {
		client.POST("/reservations", h.Book)
		client.GET("/reservations/mine", h.ListMine)
		client.GET("/reservations/:id", h.Get)
	}
	if professional != nil {
		professional.GET("/reservations", h.ListForProfessional)
		professional.PATCH("/reservations/:id/status", h.UpdateStatus)
	}
	if admin != nil {
		admin.PATCH("/reservations/:id/status", h.UpdateStatus)
		admin.DELETE("/reservations/:id", h.Delete)
	}
}

// @Summary		Book a reservation
// @Tags		Reservations
// @Security	BearerAuth
// @Param		request	body	BookRequest	true	"Professional, service and slot"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/reservations [POST]
func (h *Handler) Book(c *gin.Context) {
	var req BookRequest
	if !response.BindJSON(c, &req) {
		return
	}

	res, err := h.svc.Book(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// @Summary		Get a reservation
// @Tags		Reservations
// @Security	BearerAuth
// @Param		id	path	int	true	"Reservation ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/reservations/:id [GET]
func (h *Handler) Get(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// @Summary		Own reservations
// @Tags		Reservations
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/reservations/mine [GET]
func (h *Handler) ListMine(c *gin.Context) {
	rows, err := h.svc.ListForClient(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// @Summary		Reservations of the professional
// @Tags		Reservations
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/reservations [GET]
func (h *Handler) ListForProfessional(c *gin.Context) {
	rows, err := h.svc.ListForProfessional(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// @Summary		Change reservation status
// @Tags		Reservations
// @Security	BearerAuth
// @Param		id	path	int	true	"Reservation ID"
// @Param		request	body	UpdateStatusRequest	true	"New status"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/professional/reservations/:id/status [PATCH]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !response.BindJSON(c, &req) {
		return
	}

	res, err := h.svc.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), id, domain.ReservationStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// @Summary		Delete a reservation
// @Tags		Reservations
// @Security	BearerAuth
// @Param		id	path	int	true	"Reservation ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reservations/:id [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.Delete(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrSlotConflict):
		response.Error(c, http.StatusConflict, "SLOT_CONFLICT", "This time slot is already taken for this professional")
	case errors.Is(err, ErrTerminalState):
		response.Error(c, http.StatusConflict, "TERMINAL_STATE", "Reservation can no longer change status")
	case errors.Is(err, ErrStatusChanged):
		response.Error(c, http.StatusConflict, "CONFLICT", "Reservation was modified, reload and retry")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed for this reservation")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	default:
		response.Internal(c, err)
	}
}
