package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
)

// MatchMethod 匹配方式
const (
	MatchMethodBarcode   = "BARCODE"
	MatchMethodFuzzyName = "FUZZY_NAME"
	MatchMethodNotFound  = "NOT_FOUND"
)

// matchFloor 模糊匹配最低得分，低于此视为未命中
const matchFloor = 0.3

// MatcherService 商品识别：条码精确匹配优先，其次按名称分词模糊匹配
type MatcherService struct {
	productStore ProductStore
}

func NewMatcherService(productStore ProductStore) *MatcherService {
	return &MatcherService{productStore: productStore}
}

// MatchResult 匹配结果
type MatchResult struct {
	ProductID  *string         `json:"product_id"`
	Product    *entity.Product `json:"product,omitempty"`
	Method     string          `json:"method"`
	Confidence float64         `json:"confidence"`
}

// MatchCandidate 候选项（交互式消歧用）
type MatchCandidate struct {
	Product    entity.Product `json:"product"`
	Confidence float64        `json:"confidence"`
}

// Match 解析条码或自由文本。条码命中永远优先，置信度恒为1.0；
// 两者都未命中时返回 NOT_FOUND 而不是错误。
func (s *MatcherService) Match(ctx context.Context, barcode, freeText string) (*MatchResult, error) {
	if barcode != "" {
		product, err := s.productStore.GetByBarcode(ctx, barcode)
		if err == nil {
			return &MatchResult{
				ProductID:  &product.ID,
				Product:    product,
				Method:     MatchMethodBarcode,
				Confidence: 1.0,
			}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("lookup barcode: %w", err)
		}
		// 条码未命中，回退到自由文本
	}

	if freeText != "" {
		candidates, err := s.Search(ctx, freeText, 1)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			best := candidates[0]
			return &MatchResult{
				ProductID:  &best.Product.ID,
				Product:    &best.Product,
				Method:     MatchMethodFuzzyName,
				Confidence: best.Confidence,
			}, nil
		}
	}

	return &MatchResult{Method: MatchMethodNotFound, Confidence: 0}, nil
}

// Search 返回按置信度降序的前N个候选，无结果时返回空序列
func (s *MatcherService) Search(ctx context.Context, freeText string, limit int) ([]MatchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}
	query := tokenize(freeText)
	if len(query) == 0 {
		return []MatchCandidate{}, nil
	}

	products, err := s.productStore.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	candidates := make([]MatchCandidate, 0, 8)
	for _, p := range products {
		score := nameScore(query, p.Name)
		if score < matchFloor {
			continue
		}
		candidates = append(candidates, MatchCandidate{Product: p, Confidence: score})
	}

	// 得分相同取名称更短的（更具体的匹配）
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return len(candidates[i].Product.Name) < len(candidates[j].Product.Name)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(s)))
}

// nameScore 分词重合度得分，范围 (0, 1)：
// 查询词覆盖率与名称词覆盖率各占一半，子串命中也算命中。
func nameScore(query []string, name string) float64 {
	nameTokens := tokenize(name)
	if len(nameTokens) == 0 {
		return 0
	}

	matched := 0
	matchedName := map[int]bool{}
	for _, q := range query {
		for i, n := range nameTokens {
			if matchedName[i] {
				continue
			}
			if n == q || (len(q) >= 2 && strings.Contains(n, q)) {
				matched++
				matchedName[i] = true
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}

	queryCoverage := float64(matched) / float64(len(query))
	nameCoverage := float64(len(matchedName)) / float64(len(nameTokens))
	score := 0.5*queryCoverage + 0.5*nameCoverage

	// 模糊匹配置信度严格小于1，1.0只属于条码命中
	if score > 0.99 {
		score = 0.99
	}
	return score
}
