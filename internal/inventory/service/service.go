package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
)

// Stores 各服务依赖的存储抽象，生命周期由调用方持有
type Stores struct {
	Product        ProductStore
	Stock          StockStore
	Movement       MovementStore
	Count          CountStore
	Reconciliation ReconciliationStore
	Proposal       ProposalStore
	Draft          DraftStore
}

// Services 库存引擎服务集合
type Services struct {
	Matcher        *MatcherService
	Forecast       *ForecastService
	Count          *CountService
	Reconciliation *ReconciliationService
	Reorder        *ReorderService
	Draft          *DraftService
	Export         *ExportService
}

func NewServices(stores Stores, rdb *redis.Client, minioClient *minio.Client, bucketName string, forecastCfg ForecastConfig) *Services {
	locks := newSessionLocks()

	matcher := NewMatcherService(stores.Product)
	forecast := NewForecastService(stores.Product, stores.Movement, rdb, forecastCfg)
	draft := NewDraftService(stores.Count, stores.Proposal, stores.Product, stores.Draft, locks)

	return &Services{
		Matcher:        matcher,
		Forecast:       forecast,
		Count:          NewCountService(stores.Count, stores.Product, matcher),
		Reconciliation: NewReconciliationService(stores.Count, stores.Stock, stores.Product, stores.Reconciliation, locks),
		Reorder:        NewReorderService(stores.Count, stores.Product, stores.Proposal, stores.Draft, forecast, locks),
		Draft:          draft,
		Export:         NewExportService(draft, minioClient, bucketName),
	}
}
