package handler

import (
	"net/http"

	"clubpos/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Courts godoc
// @Summary      Canchas activas
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CourtResponse
// @Router       /v1/courts [get]
func (h *CatalogHandler) Courts(c *gin.Context) {
	resp, err := h.svc.Courts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PaymentMethods godoc
// @Summary      Medios de pago
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PaymentMethodResponse
// @Router       /v1/payment-methods [get]
func (h *CatalogHandler) PaymentMethods(c *gin.Context) {
	resp, err := h.svc.PaymentMethods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
