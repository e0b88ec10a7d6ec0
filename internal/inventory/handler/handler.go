package handler

import (
	"errors"
	"net/http"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// Defaults 接口层使用的引擎默认配置（可被请求体覆盖）
type Defaults struct {
	Reconcile service.ReconcileConfig
	Reorder   service.ReorderConfig
}

// Handlers 库存引擎HTTP处理器集合
type Handlers struct {
	Product        *ProductHandler
	Forecast       *ForecastHandler
	Count          *CountHandler
	Reconciliation *ReconciliationHandler
	Reorder        *ReorderHandler
	Draft          *DraftHandler
}

func NewHandlers(services *service.Services, defaults Defaults) *Handlers {
	return &Handlers{
		Product:        NewProductHandler(services.Matcher),
		Forecast:       NewForecastHandler(services.Forecast),
		Count:          NewCountHandler(services.Count),
		Reconciliation: NewReconciliationHandler(services.Reconciliation, defaults.Reconcile),
		Reorder:        NewReorderHandler(services.Reorder, defaults.Reorder),
		Draft:          NewDraftHandler(services.Draft, services.Export),
	}
}

// respondError 引擎错误分类到HTTP状态的统一映射
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"code": 10003, "message": err.Error()})
	case errors.Is(err, service.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

func currentUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if s, ok := userID.(string); ok {
			return s
		}
	}
	return ""
}
