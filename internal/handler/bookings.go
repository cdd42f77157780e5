package handler

import (
	"net/http"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/middleware"
	"clubpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingsHandler struct{ svc service.BookingService }

func NewBookingsHandler(svc service.BookingService) *BookingsHandler {
	return &BookingsHandler{svc: svc}
}

// Create godoc
// @Summary      Crear reserva
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateBookingRequest true "Nueva reserva"
// @Success      201  {object} dto.BookingResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/bookings [post]
func (h *BookingsHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)
	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Agenda godoc
// @Summary      Agenda del dia
// @Description  Reservas cuyo inicio cae en la fecha dada, cualquier estado.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200  {array} dto.BookingResponse
// @Router       /v1/bookings [get]
func (h *BookingsHandler) Agenda(c *gin.Context) {
	resp, err := h.svc.Agenda(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Charge godoc
// @Summary      Cobrar reserva
// @Description  Pasa una reserva PENDIENTE a COBRADO y registra el pago.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la reserva"
// @Param        body body dto.ChargeBookingRequest true "Pago"
// @Success      200  {object} dto.BookingResponse
// @Failure      409  {object} apierror.APIError "La reserva no esta pendiente"
// @Router       /v1/bookings/{id}/charge [post]
func (h *BookingsHandler) Charge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ChargeBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)
	resp, err := h.svc.Charge(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancelar reserva
// @Description  Solo se cancelan reservas PENDIENTE; las cobradas quedan firmes.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la reserva"
// @Success      200 {object} dto.BookingResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bookings/{id}/cancel [post]
func (h *BookingsHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
