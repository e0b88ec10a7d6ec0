package handler

import (
	"net/http"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// DraftHandler 供应商订单草稿接口
type DraftHandler struct {
	svc       *service.DraftService
	exportSvc *service.ExportService
}

func NewDraftHandler(svc *service.DraftService, exportSvc *service.ExportService) *DraftHandler {
	return &DraftHandler{svc: svc, exportSvc: exportSvc}
}

func (h *DraftHandler) Create(c *gin.Context) {
	var req service.CreateDraftsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
			return
		}
	}
	drafts, err := h.svc.CreateOrderDrafts(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": drafts})
}

func (h *DraftHandler) ListBySession(c *gin.Context) {
	drafts, err := h.svc.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": drafts})
}

func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

// Export 渲染草稿并下载；首次成功导出推进状态到 EXPORTED
func (h *DraftHandler) Export(c *gin.Context) {
	var result *service.ExportResult
	var err error
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		result, err = h.exportSvc.ExportCSV(c.Request.Context(), c.Param("id"), c.Query("encoding") == "gbk")
	case "xlsx":
		result, err = h.exportSvc.ExportXLSX(c.Request.Context(), c.Param("id"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "unsupported format"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (h *DraftHandler) Finalize(c *gin.Context) {
	draft, err := h.svc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}

func (h *DraftHandler) MarkSent(c *gin.Context) {
	draft, err := h.svc.MarkSent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}
