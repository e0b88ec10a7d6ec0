package handler

import (
	"net/http"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// ReorderHandler 补货建议接口
type ReorderHandler struct {
	svc      *service.ReorderService
	defaults service.ReorderConfig
}

func NewReorderHandler(svc *service.ReorderService, defaults service.ReorderConfig) *ReorderHandler {
	return &ReorderHandler{svc: svc, defaults: defaults}
}

type generateProposalsRequest struct {
	UseForecast  *bool    `json:"use_forecast"`
	RoundToCase  *bool    `json:"round_to_case"`
	ServiceLevel *float64 `json:"service_level"`
}

func (h *ReorderHandler) Generate(c *gin.Context) {
	var req generateProposalsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
			return
		}
	}

	cfg := h.defaults
	if req.UseForecast != nil {
		cfg.UseForecast = *req.UseForecast
	}
	if req.RoundToCase != nil {
		cfg.RoundToCase = *req.RoundToCase
	}
	if req.ServiceLevel != nil {
		cfg.ServiceLevel = *req.ServiceLevel
	}

	proposals, err := h.svc.GenerateProposals(c.Request.Context(), c.Param("id"), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": proposals})
}

func (h *ReorderHandler) List(c *gin.Context) {
	proposals, err := h.svc.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": proposals})
}

func (h *ReorderHandler) BySupplier(c *gin.Context) {
	grouping, err := h.svc.ProposalsBySupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": grouping})
}

func (h *ReorderHandler) Update(c *gin.Context) {
	var req service.UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	proposal, err := h.svc.UpdateProposal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": proposal})
}
