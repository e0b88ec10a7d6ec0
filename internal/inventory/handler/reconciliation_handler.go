package handler

import (
	"net/http"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// ReconciliationHandler 盘点对账接口
type ReconciliationHandler struct {
	svc      *service.ReconciliationService
	defaults service.ReconcileConfig
}

func NewReconciliationHandler(svc *service.ReconciliationService, defaults service.ReconcileConfig) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc, defaults: defaults}
}

type reconcileRequest struct {
	WarningThresholdQty  *float64 `json:"warning_threshold_qty"`
	CriticalThresholdQty *float64 `json:"critical_threshold_qty"`
}

func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
			return
		}
	}

	cfg := h.defaults
	if req.WarningThresholdQty != nil {
		cfg.WarningThresholdQty = *req.WarningThresholdQty
	}
	if req.CriticalThresholdQty != nil {
		cfg.CriticalThresholdQty = *req.CriticalThresholdQty
	}

	results, err := h.svc.Reconcile(c.Request.Context(), c.Param("id"), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": results})
}

func (h *ReconciliationHandler) Results(c *gin.Context) {
	results, err := h.svc.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": results})
}
