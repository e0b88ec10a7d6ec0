package handler

import (
	"net/http"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// CountHandler 盘点单接口
type CountHandler struct {
	svc *service.CountService
}

func NewCountHandler(svc *service.CountService) *CountHandler {
	return &CountHandler{svc: svc}
}

func (h *CountHandler) CreateSession(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	session, err := h.svc.CreateSession(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": session})
}

func (h *CountHandler) GetSession(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": session})
}

func (h *CountHandler) AddLine(c *gin.Context) {
	var req service.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	line, err := h.svc.AddLine(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": line})
}

func (h *CountHandler) ListLines(c *gin.Context) {
	lines, err := h.svc.ListLines(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": lines})
}

func (h *CountHandler) Commit(c *gin.Context) {
	session, err := h.svc.CommitSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": session})
}
