package payment

import (
	"errors"
	"net/http"

	"servicebook/internal/domain"
	"servicebook/internal/middleware"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations/:id/payments", h.RecordPayment)
	rg.GET("/reservations/:id/payments", h.ListForReservation)
}

// @Summary		Record a payment
// @Tags		Payments
// @Security	BearerAuth
// @Param		id	path	int	true	"Reservation ID"
// @Param		request	body	RecordPaymentRequest	true	"Amount and method"
// @Success		201	{object}	map[string]interface{}	"Created"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		409	{object}	map[string]interface{}	"Conflict"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reservations/:id/payments [POST]
func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !response.BindJSON(c, &req) {
		return
	}

	p, res, err := h.service.RecordPayment(c.Request.Context(), middleware.CurrentActor(c), id, req.Amount, domain.PaymentMethod(req.Method))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, RecordPaymentResponse{Payment: p, Reservation: res})
}

// @Summary		Payments of a reservation
// @Tags		Payments
// @Security	BearerAuth
// @Param		id	path	int	true	"Reservation ID"
// @Success		200	{object}	map[string]interface{}	"OK"
// @Failure		400	{object}	map[string]interface{}	"Validation error"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		403	{object}	map[string]interface{}	"Forbidden"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Failure		500	{object}	map[string]interface{}	"Internal error"
// @Router		/admin/reservations/:id/payments [GET]
func (h *Handler) ListForReservation(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListForReservation(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrReservationClosed):
		response.Error(c, http.StatusConflict, "RESERVATION_CLOSED", "Cancelled reservations cannot take payments")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "Reservation is already paid")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	default:
		response.Internal(c, err)
	}
}
