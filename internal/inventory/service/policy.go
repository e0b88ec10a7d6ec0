package service

import (
	"fmt"
	"math"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
)

// ReconcileConfig 对账阈值配置
type ReconcileConfig struct {
	WarningThresholdQty  float64 `json:"warning_threshold_qty"`
	CriticalThresholdQty float64 `json:"critical_threshold_qty"`
}

// DefaultReconcileConfig 默认阈值
func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		WarningThresholdQty:  3,
		CriticalThresholdQty: 10,
	}
}

// Validate 构建期校验，计算开始前拒绝非法阈值
func (c ReconcileConfig) Validate() error {
	if c.WarningThresholdQty <= 0 || c.CriticalThresholdQty <= 0 {
		return fmt.Errorf("%w: thresholds must be positive", ErrConfiguration)
	}
	if c.WarningThresholdQty >= c.CriticalThresholdQty {
		return fmt.Errorf("%w: warning threshold %.4f must be below critical threshold %.4f",
			ErrConfiguration, c.WarningThresholdQty, c.CriticalThresholdQty)
	}
	return nil
}

// classifySeverity 按 |delta| 对两级阈值分级，随偏差单调不减
func classifySeverity(deltaQty float64, cfg ReconcileConfig) string {
	abs := math.Abs(deltaQty)
	switch {
	case abs >= cfg.CriticalThresholdQty:
		return entity.SeverityCritical
	case abs >= cfg.WarningThresholdQty:
		return entity.SeverityWarning
	default:
		return entity.SeverityOK
	}
}

// roundToPack 按箱规向上取整；packSize <= 1 时原样返回
func roundToPack(qty float64, packSize int) float64 {
	if packSize <= 1 || qty <= 0 {
		return qty
	}
	packs := math.Ceil(qty / float64(packSize))
	return packs * float64(packSize)
}

// zScoreTable 单侧正态分位数查找表
var zScoreTable = map[float64]float64{
	0.80: 0.842,
	0.85: 1.036,
	0.90: 1.282,
	0.95: 1.645,
	0.97: 1.881,
	0.99: 2.326,
}

// zScoreFor 返回服务水平对应的z值，不在表内时取最近的键
func zScoreFor(serviceLevel float64) float64 {
	if z, ok := zScoreTable[serviceLevel]; ok {
		return z
	}
	bestKey := 0.95
	bestDist := math.Inf(1)
	for k := range zScoreTable {
		d := math.Abs(k - serviceLevel)
		if d < bestDist || (d == bestDist && k < bestKey) {
			bestKey = k
			bestDist = d
		}
	}
	return zScoreTable[bestKey]
}
