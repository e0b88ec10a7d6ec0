package handler

import (
	"net/http"
	"strconv"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// ProductHandler 商品识别接口
type ProductHandler struct {
	matcher *service.MatcherService
}

func NewProductHandler(matcher *service.MatcherService) *ProductHandler {
	return &ProductHandler{matcher: matcher}
}

type matchRequest struct {
	Barcode  string `json:"barcode"`
	FreeText string `json:"free_text"`
}

func (h *ProductHandler) Match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	result, err := h.matcher.Match(c.Request.Context(), req.Barcode, req.FreeText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

func (h *ProductHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	candidates, err := h.matcher.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": candidates})
}
