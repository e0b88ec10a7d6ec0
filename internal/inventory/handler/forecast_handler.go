package handler

import (
	"net/http"
	"strconv"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// ForecastHandler 需求预测接口
type ForecastHandler struct {
	svc *service.ForecastService
}

func NewForecastHandler(svc *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

func (h *ForecastHandler) Demand(c *gin.Context) {
	daysAhead, _ := strconv.Atoi(c.DefaultQuery("days_ahead", "7"))
	result, err := h.svc.ForecastDemand(c.Request.Context(),
		c.Param("product_id"), c.Query("location_id"), daysAhead)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

func (h *ForecastHandler) SafetyStock(c *gin.Context) {
	serviceLevel, _ := strconv.ParseFloat(c.DefaultQuery("service_level", "0"), 64)
	result, err := h.svc.SafetyStock(c.Request.Context(),
		c.Param("product_id"), c.Query("location_id"), serviceLevel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

func (h *ForecastHandler) EOQ(c *gin.Context) {
	orderingCost, _ := strconv.ParseFloat(c.DefaultQuery("ordering_cost", "0"), 64)
	holdingCostPct, _ := strconv.ParseFloat(c.DefaultQuery("holding_cost_pct", "0"), 64)
	result, err := h.svc.EconomicOrderQuantity(c.Request.Context(),
		c.Param("product_id"), c.Query("location_id"), orderingCost, holdingCostPct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}
