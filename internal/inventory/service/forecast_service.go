package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/redis/go-redis/v9"
)

// Confidence 预测结果可信度标记；数据稀疏不是错误
const (
	ConfidenceOK     = "OK"
	ConfidenceNoData = "NO_DATA"
)

const usageCacheTTL = 5 * time.Minute

// ForecastConfig 需求预测配置
type ForecastConfig struct {
	LookbackDays   int     `json:"lookback_days"`
	WeightMA7      float64 `json:"weight_ma7"`
	WeightMA14     float64 `json:"weight_ma14"`
	WeightMA30     float64 `json:"weight_ma30"`
	ServiceLevel   float64 `json:"service_level"`
	OrderingCost   float64 `json:"ordering_cost"`
	HoldingCostPct float64 `json:"holding_cost_pct"`
}

// DefaultForecastConfig 默认配置：回看90天，0.5/0.3/0.2加权，95%服务水平，
// 下单成本25，持有成本率0.2
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		LookbackDays:   90,
		WeightMA7:      0.5,
		WeightMA14:     0.3,
		WeightMA30:     0.2,
		ServiceLevel:   0.95,
		OrderingCost:   25,
		HoldingCostPct: 0.2,
	}
}

func (c ForecastConfig) withDefaults() ForecastConfig {
	def := DefaultForecastConfig()
	if c.LookbackDays <= 0 {
		c.LookbackDays = def.LookbackDays
	}
	// 权重含负值或全空时整组回退默认；只给部分权重时归一化，
	// 基线不会被不完整的配置悄悄缩小
	sum := c.WeightMA7 + c.WeightMA14 + c.WeightMA30
	switch {
	case c.WeightMA7 < 0 || c.WeightMA14 < 0 || c.WeightMA30 < 0 || sum <= 0:
		c.WeightMA7, c.WeightMA14, c.WeightMA30 = def.WeightMA7, def.WeightMA14, def.WeightMA30
	case math.Abs(sum-1) > 1e-9:
		c.WeightMA7 /= sum
		c.WeightMA14 /= sum
		c.WeightMA30 /= sum
	}
	if c.ServiceLevel <= 0 || c.ServiceLevel >= 1 {
		c.ServiceLevel = def.ServiceLevel
	}
	if c.OrderingCost <= 0 {
		c.OrderingCost = def.OrderingCost
	}
	if c.HoldingCostPct <= 0 {
		c.HoldingCostPct = def.HoldingCostPct
	}
	return c
}

// ForecastService 需求预测：把销售流水聚合成日用量序列，
// 在其上计算移动平均、周内季节因子、安全库存、再订货点和经济批量。
type ForecastService struct {
	productStore  ProductStore
	movementStore MovementStore
	rdb           *redis.Client // 可为空；仅作序列缓存
	cfg           ForecastConfig
	now           func() time.Time
}

func NewForecastService(productStore ProductStore, movementStore MovementStore, rdb *redis.Client, cfg ForecastConfig) *ForecastService {
	return &ForecastService{
		productStore:  productStore,
		movementStore: movementStore,
		rdb:           rdb,
		cfg:           cfg.withDefaults(),
		now:           time.Now,
	}
}

// UsageSeries 日用量序列，Start 起逐日一个值，无销售的日期为0
type UsageSeries struct {
	Start time.Time `json:"start"`
	Daily []float64 `json:"daily"`
}

// Empty 回看窗口内没有任何销售流水
func (u UsageSeries) Empty() bool {
	return len(u.Daily) == 0
}

// Mean 全序列平均日用量
func (u UsageSeries) Mean() float64 {
	if len(u.Daily) == 0 {
		return 0
	}
	var sum float64
	for _, v := range u.Daily {
		sum += v
	}
	return sum / float64(len(u.Daily))
}

// MovingAverage 最近n天的简单平均，历史不足n天时按实际长度
func (u UsageSeries) MovingAverage(n int) float64 {
	if len(u.Daily) == 0 || n <= 0 {
		return 0
	}
	if n > len(u.Daily) {
		n = len(u.Daily)
	}
	var sum float64
	for _, v := range u.Daily[len(u.Daily)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// SampleStdDev 样本标准差（n-1分母），少于2个点时为0
func (u UsageSeries) SampleStdDev() float64 {
	n := len(u.Daily)
	if n < 2 {
		return 0
	}
	mean := u.Mean()
	var sq float64
	for _, v := range u.Daily {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

// WeekdayFactors 周内季节因子：各星期几的历史均值 / 全序列均值，
// 无观测或全序列均值为0时因子为1.0
func (u UsageSeries) WeekdayFactors() [7]float64 {
	var factors [7]float64
	for i := range factors {
		factors[i] = 1.0
	}
	overall := u.Mean()
	if overall <= 0 {
		return factors
	}
	var sums, counts [7]float64
	for i, v := range u.Daily {
		wd := int(u.Start.AddDate(0, 0, i).Weekday())
		sums[wd] += v
		counts[wd]++
	}
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			factors[wd] = (sums[wd] / counts[wd]) / overall
		}
	}
	return factors
}

// baseline 加权混合 0.5·MA7 + 0.3·MA14 + 0.2·MA30；
// 历史不足30天时退化为MA7
func (s *ForecastService) baseline(u UsageSeries) float64 {
	if u.Empty() {
		return 0
	}
	if len(u.Daily) < 30 {
		return u.MovingAverage(7)
	}
	return s.cfg.WeightMA7*u.MovingAverage(7) +
		s.cfg.WeightMA14*u.MovingAverage(14) +
		s.cfg.WeightMA30*u.MovingAverage(30)
}

// DailyUsage 构建日用量序列：取回看窗口内 reason=SALE 的流水，
// 按自然日汇总 |quantity_delta|，空档日补0。结果经Redis短时缓存。
func (s *ForecastService) DailyUsage(ctx context.Context, productID, locationID string) (UsageSeries, error) {
	cacheKey := fmt.Sprintf("inv:usage:%s:%s:%d", productID, locationID, s.cfg.LookbackDays)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached UsageSeries
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	today := startOfDay(s.now())
	since := today.AddDate(0, 0, -(s.cfg.LookbackDays - 1))

	movements, err := s.movementStore.ListByReason(ctx, productID, locationID, entity.ReasonSale, since)
	if err != nil {
		return UsageSeries{}, fmt.Errorf("list sale movements: %w", err)
	}
	if len(movements) == 0 {
		return UsageSeries{}, nil
	}

	series := UsageSeries{
		Start: since,
		Daily: make([]float64, s.cfg.LookbackDays),
	}
	for _, m := range movements {
		day := int(startOfDay(m.OccurredAt).Sub(since).Hours() / 24)
		if day < 0 || day >= len(series.Daily) {
			continue
		}
		series.Daily[day] += math.Abs(m.QuantityDelta)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(series); err == nil {
			s.rdb.Set(ctx, cacheKey, raw, usageCacheTTL)
		}
	}
	return series, nil
}

// DailyProjection 某个未来日期的需求投影
type DailyProjection struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
}

// DemandForecast 需求预测结果
type DemandForecast struct {
	ProductID      string            `json:"product_id"`
	LocationID     string            `json:"location_id"`
	AvgDailyDemand float64           `json:"avg_daily_demand"`
	Projections    []DailyProjection `json:"projections,omitempty"`
	Confidence     string            `json:"confidence"`
}

// ForecastDemand 未来daysAhead天的逐日需求投影：基线 × 当日星期因子。
// 序列为空时返回零值结果并标记 NO_DATA，从不报错。
func (s *ForecastService) ForecastDemand(ctx context.Context, productID, locationID string, daysAhead int) (*DemandForecast, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	series, err := s.DailyUsage(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}

	result := &DemandForecast{
		ProductID:  productID,
		LocationID: locationID,
		Confidence: ConfidenceOK,
	}
	if series.Empty() {
		result.Confidence = ConfidenceNoData
		return result, nil
	}

	base := s.baseline(series)
	factors := series.WeekdayFactors()
	result.AvgDailyDemand = base
	result.Projections = make([]DailyProjection, 0, daysAhead)

	start := startOfDay(s.now()).AddDate(0, 0, 1)
	for i := 0; i < daysAhead; i++ {
		date := start.AddDate(0, 0, i)
		result.Projections = append(result.Projections, DailyProjection{
			Date:     date,
			Quantity: base * factors[int(date.Weekday())],
		})
	}
	return result, nil
}

// SafetyStockResult 安全库存与再订货点
type SafetyStockResult struct {
	ProductID      string  `json:"product_id"`
	LocationID     string  `json:"location_id"`
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	StdDevDaily    float64 `json:"std_dev_daily"`
	ServiceLevel   float64 `json:"service_level"`
	ZScore         float64 `json:"z_score"`
	LeadTimeDays   int     `json:"lead_time_days"`
	SafetyStock    float64 `json:"safety_stock"`
	ReorderPoint   float64 `json:"reorder_point"`
	Confidence     string  `json:"confidence"`
}

// SafetyStock 安全库存 = z · σ日 · √交期；再订货点 = 日均需求 · 交期 + 安全库存
func (s *ForecastService) SafetyStock(ctx context.Context, productID, locationID string, serviceLevel float64) (*SafetyStockResult, error) {
	if serviceLevel <= 0 || serviceLevel >= 1 {
		serviceLevel = s.cfg.ServiceLevel
	}
	product, err := s.productStore.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	series, err := s.DailyUsage(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}

	result := &SafetyStockResult{
		ProductID:    productID,
		LocationID:   locationID,
		ServiceLevel: serviceLevel,
		LeadTimeDays: product.LeadTimeDays,
		Confidence:   ConfidenceOK,
	}
	if series.Empty() {
		result.Confidence = ConfidenceNoData
		return result, nil
	}

	z := zScoreFor(serviceLevel)
	sigma := series.SampleStdDev()
	avg := s.baseline(series)
	lead := float64(product.LeadTimeDays)

	result.AvgDailyDemand = avg
	result.StdDevDaily = sigma
	result.ZScore = z
	result.SafetyStock = z * sigma * math.Sqrt(lead)
	result.ReorderPoint = avg*lead + result.SafetyStock
	return result, nil
}

// EOQResult 经济订货批量
type EOQResult struct {
	ProductID          string  `json:"product_id"`
	LocationID         string  `json:"location_id"`
	AnnualDemand       float64 `json:"annual_demand"`
	OrderingCost       float64 `json:"ordering_cost"`
	HoldingCostPerUnit float64 `json:"holding_cost_per_unit"`
	EOQ                float64 `json:"eoq"`
	InsufficientData   bool    `json:"insufficient_data"`
}

// EconomicOrderQuantity EOQ = √(2·年需求·下单成本 / 单位持有成本)。
// 成本参数不为正时取配置默认值（与SafetyStock的服务水平同一处理）；
// 年需求或持有成本不为正时返回 insufficient_data=true，绝不产生NaN。
func (s *ForecastService) EconomicOrderQuantity(ctx context.Context, productID, locationID string, orderingCost, holdingCostPct float64) (*EOQResult, error) {
	if orderingCost <= 0 {
		orderingCost = s.cfg.OrderingCost
	}
	if holdingCostPct <= 0 {
		holdingCostPct = s.cfg.HoldingCostPct
	}
	product, err := s.productStore.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	series, err := s.DailyUsage(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}

	result := &EOQResult{
		ProductID:    productID,
		LocationID:   locationID,
		OrderingCost: orderingCost,
	}

	annualDemand := s.baseline(series) * 365
	var holdingCost float64
	if product.UnitCost != nil {
		holdingCost = *product.UnitCost * holdingCostPct
	}
	result.AnnualDemand = annualDemand
	result.HoldingCostPerUnit = holdingCost

	if annualDemand <= 0 || holdingCost <= 0 || orderingCost <= 0 {
		result.InsufficientData = true
		return result, nil
	}

	result.EOQ = math.Sqrt(2 * annualDemand * orderingCost / holdingCost)
	return result, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
