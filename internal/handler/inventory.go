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

type InventoryHandler struct {
	svc  service.InventoryService
	sync service.StockSyncService
}

func NewInventoryHandler(svc service.InventoryService, sync service.StockSyncService) *InventoryHandler {
	return &InventoryHandler{svc: svc, sync: sync}
}

// Purchase godoc
// @Summary      Registrar compra
// @Description  Agrega una capa de costo al ledger (movimiento PURCHASE positivo).
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PurchaseRequest true "Compra"
// @Success      201
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventory/purchase [post]
func (h *InventoryHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)
	if err := h.svc.Purchase(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Adjust godoc
// @Summary      Registrar ajuste manual
// @Description  Movimiento ADJUST con signo libre: positivo suma stock, negativo lo descuenta.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustRequest true "Ajuste"
// @Success      201
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)
	if err := h.svc.Adjust(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Stock godoc
// @Summary      Stock actual
// @Description  Lee la cache denormalizada; si esta vacia recalcula desde el ledger.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockItem
// @Router       /v1/inventory/stock [get]
func (h *InventoryHandler) Stock(c *gin.Context) {
	resp, err := h.svc.Stock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Filtrar por producto"
// @Param        type       query string false "PURCHASE | SALE | ADJUST"
// @Param        page       query int    false "Pagina (default 1)"
// @Param        limit      query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros invalidos"))
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resync godoc
// @Summary      Reconstruir cache de stock
// @Description  Recalcula la cache completa desde el ledger de movimientos.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Router       /v1/inventory/resync [post]
func (h *InventoryHandler) Resync(c *gin.Context) {
	if err := h.sync.ResyncAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
