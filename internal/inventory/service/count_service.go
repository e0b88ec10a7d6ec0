package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/google/uuid"
)

// CountService 盘点单：草稿期可增改行（同商品累加），提交一次后不可变
type CountService struct {
	countStore   CountStore
	productStore ProductStore
	matcher      *MatcherService
}

func NewCountService(countStore CountStore, productStore ProductStore, matcher *MatcherService) *CountService {
	return &CountService{countStore: countStore, productStore: productStore, matcher: matcher}
}

// CreateSessionRequest 创建盘点单请求
type CreateSessionRequest struct {
	LocationID string `json:"location_id" binding:"required"`
	Notes      string `json:"notes"`
}

func (s *CountService) CreateSession(ctx context.Context, req CreateSessionRequest, userID string) (*entity.CountSession, error) {
	session := &entity.CountSession{
		ID:         uuid.New().String(),
		LocationID: req.LocationID,
		Status:     entity.SessionStatusDraft,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}
	if err := s.countStore.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create count session: %w", err)
	}
	return session, nil
}

func (s *CountService) GetSession(ctx context.Context, sessionID string) (*entity.CountSession, error) {
	return s.countStore.GetSession(ctx, sessionID)
}

func (s *CountService) ListLines(ctx context.Context, sessionID string) ([]entity.CountLine, error) {
	if _, err := s.countStore.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.countStore.ListLines(ctx, sessionID)
}

// AddLineRequest 录入盘点行。ProductID、Barcode、FreeText 三选一，
// 未给定 ProductID 时经过商品识别解析。
type AddLineRequest struct {
	ProductID string  `json:"product_id"`
	Barcode   string  `json:"barcode"`
	FreeText  string  `json:"free_text"`
	Quantity  float64 `json:"quantity" binding:"gte=0"`
}

// AddLine 向草稿盘点单录入一行。(session, product) 已存在时累加数量，
// 这是显式的合并语义而不是插入路径的副作用。
func (s *CountService) AddLine(ctx context.Context, sessionID string, req AddLineRequest) (*entity.CountLine, error) {
	session, err := s.countStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusDraft {
		return nil, fmt.Errorf("%w: session %s is %s, lines are mutable only in draft",
			ErrInvalidState, sessionID, session.Status)
	}

	productID := req.ProductID
	captureMethod := entity.CaptureMethodManual
	confidence := 1.0

	if productID != "" {
		// 直接给定的ID也要过目录校验，不存在的商品不进盘点单
		if _, err := s.productStore.GetByID(ctx, productID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s not in catalog", ErrNotFound, productID)
			}
			return nil, fmt.Errorf("load product %s: %w", productID, err)
		}
	} else {
		match, err := s.matcher.Match(ctx, req.Barcode, req.FreeText)
		if err != nil {
			return nil, err
		}
		if match.Method == MatchMethodNotFound {
			return nil, fmt.Errorf("%w: no product matches barcode=%q text=%q",
				ErrNotFound, req.Barcode, req.FreeText)
		}
		productID = *match.ProductID
		confidence = match.Confidence
		switch match.Method {
		case MatchMethodBarcode:
			captureMethod = entity.CaptureMethodBarcode
		case MatchMethodFuzzyName:
			captureMethod = entity.CaptureMethodFuzzyName
		}
	}

	line := &entity.CountLine{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		ProductID:       productID,
		CountedQuantity: req.Quantity,
		CaptureMethod:   captureMethod,
		Confidence:      confidence,
	}
	merged, err := s.countStore.UpsertLineAccumulate(ctx, line)
	if err != nil {
		return nil, fmt.Errorf("upsert count line: %w", err)
	}
	return merged, nil
}

// CommitSession DRAFT → COMMITTED，仅此一次；提交后盘点单不可变
func (s *CountService) CommitSession(ctx context.Context, sessionID string) (*entity.CountSession, error) {
	session, err := s.countStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusDraft {
		return nil, fmt.Errorf("%w: session %s already %s", ErrInvalidState, sessionID, session.Status)
	}

	now := time.Now()
	session.Status = entity.SessionStatusCommitted
	session.CommittedAt = &now
	if err := s.countStore.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}
	return session, nil
}
