package handler

import (
	"net/http"

	"github.com/Kavin-Nithil/inventory-svc/internal/apierror"
	"github.com/Kavin-Nithil/inventory-svc/internal/dto"
	"github.com/Kavin-Nithil/inventory-svc/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.ReservationService }

func NewInventoryHandler(svc service.ReservationService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reserve(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) Release(c *gin.Context) {
	var req dto.ReleaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Release(c.Request.Context(), req.ReservationID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Availability(c *gin.Context) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	rows, err := h.svc.GetAvailability(c.Request.Context(), query.ProductSku, query.WarehouseCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if rows == nil {
		rows = []dto.AvailabilityRow{}
	}
	c.JSON(http.StatusOK, rows)
}
