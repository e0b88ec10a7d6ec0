package service

import (
	"context"
	"sync"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/google/uuid"
)

// In-memory store fakes. They honor the same contract as the gorm
// implementations (ErrNotFound, accumulate-on-upsert, replace-for-session)
// so services can be exercised without a database.

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool      { return &v }

type memProductStore struct {
	mu       sync.Mutex
	products map[string]entity.Product
}

func newMemProductStore(products ...entity.Product) *memProductStore {
	s := &memProductStore{products: make(map[string]entity.Product)}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *memProductStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (s *memProductStore) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if barcode == "" {
		return nil, ErrNotFound
	}
	for _, p := range s.products {
		if p.Barcode == barcode {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memProductStore) ListActive(_ context.Context) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type memStockStore struct {
	mu   sync.Mutex
	rows map[string]entity.StockOnHand
}

func newMemStockStore(rows ...entity.StockOnHand) *memStockStore {
	s := &memStockStore{rows: make(map[string]entity.StockOnHand)}
	for _, r := range rows {
		s.rows[r.ProductID+"|"+r.LocationID] = r
	}
	return s
}

func (s *memStockStore) Get(_ context.Context, productID, locationID string) (*entity.StockOnHand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[productID+"|"+locationID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r
	return &cp, nil
}

type memMovementStore struct {
	mu        sync.Mutex
	movements []entity.StockMovement
}

func (s *memMovementStore) add(m entity.StockMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, m)
}

func (s *memMovementStore) ListByReason(_ context.Context, productID, locationID, reason string, since time.Time) ([]entity.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID != productID || m.LocationID != locationID || m.Reason != reason {
			continue
		}
		if m.OccurredAt.Before(since) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type memCountStore struct {
	mu       sync.Mutex
	sessions map[string]entity.CountSession
	lines    []entity.CountLine
}

func newMemCountStore() *memCountStore {
	return &memCountStore{sessions: make(map[string]entity.CountSession)}
}

func (s *memCountStore) CreateSession(_ context.Context, session *entity.CountSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *memCountStore) GetSession(_ context.Context, id string) (*entity.CountSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := sess
	return &cp, nil
}

func (s *memCountStore) UpdateSession(_ context.Context, session *entity.CountSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return ErrNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *memCountStore) UpsertLineAccumulate(_ context.Context, line *entity.CountLine) (*entity.CountLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].SessionID == line.SessionID && s.lines[i].ProductID == line.ProductID {
			s.lines[i].CountedQuantity += line.CountedQuantity
			cp := s.lines[i]
			return &cp, nil
		}
	}
	s.lines = append(s.lines, *line)
	cp := *line
	return &cp, nil
}

func (s *memCountStore) ListLines(_ context.Context, sessionID string) ([]entity.CountLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.CountLine
	for _, l := range s.lines {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memReconStore struct {
	mu      sync.Mutex
	results map[string][]entity.ReconciliationResult
}

func newMemReconStore() *memReconStore {
	return &memReconStore{results: make(map[string][]entity.ReconciliationResult)}
}

func (s *memReconStore) ReplaceForSession(_ context.Context, sessionID string, results []entity.ReconciliationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[sessionID] = append([]entity.ReconciliationResult(nil), results...)
	return nil
}

func (s *memReconStore) ListBySession(_ context.Context, sessionID string) ([]entity.ReconciliationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ReconciliationResult(nil), s.results[sessionID]...), nil
}

type memProposalStore struct {
	mu        sync.Mutex
	proposals map[string][]entity.ReorderProposal
}

func newMemProposalStore() *memProposalStore {
	return &memProposalStore{proposals: make(map[string][]entity.ReorderProposal)}
}

func (s *memProposalStore) ReplaceForSession(_ context.Context, sessionID string, proposals []entity.ReorderProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[sessionID] = append([]entity.ReorderProposal(nil), proposals...)
	return nil
}

func (s *memProposalStore) ListBySession(_ context.Context, sessionID string) ([]entity.ReorderProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ReorderProposal(nil), s.proposals[sessionID]...), nil
}

func (s *memProposalStore) GetByID(_ context.Context, id string) (*entity.ReorderProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, group := range s.proposals {
		for _, p := range group {
			if p.ID == id {
				cp := p
				return &cp, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *memProposalStore) Update(_ context.Context, proposal *entity.ReorderProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, group := range s.proposals {
		for i, p := range group {
			if p.ID == proposal.ID {
				s.proposals[sid][i] = *proposal
				return nil
			}
		}
	}
	return ErrNotFound
}

type memDraftStore struct {
	mu     sync.Mutex
	drafts map[string]entity.SupplierOrderDraft
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: make(map[string]entity.SupplierOrderDraft)}
}

func (s *memDraftStore) ReplaceForSession(_ context.Context, sessionID string, drafts []entity.SupplierOrderDraft, clearPrevious bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clearPrevious {
		for id, d := range s.drafts {
			if d.SessionID == sessionID {
				delete(s.drafts, id)
			}
		}
	}
	for _, d := range drafts {
		s.drafts[d.ID] = d
	}
	return nil
}

func (s *memDraftStore) ListBySession(_ context.Context, sessionID string) ([]entity.SupplierOrderDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.SupplierOrderDraft
	for _, d := range s.drafts {
		if d.SessionID == sessionID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memDraftStore) GetByID(_ context.Context, id string) (*entity.SupplierOrderDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := d
	return &cp, nil
}

func (s *memDraftStore) UpdateStatus(_ context.Context, draft *entity.SupplierOrderDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[draft.ID]; !ok {
		return ErrNotFound
	}
	s.drafts[draft.ID] = *draft
	return nil
}

func (s *memDraftStore) SumInTransit(_ context.Context, productID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, d := range s.drafts {
		if d.Status != entity.DraftStatusSent {
			continue
		}
		for _, item := range d.Items {
			if item.ProductID == productID {
				sum += item.Quantity
			}
		}
	}
	return sum, nil
}
