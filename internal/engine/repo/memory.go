package repo

import (
	"context"
	"sync"
	"time"

	"github.com/orderchat-poc/server/internal/engine/model"
)

// MemoryDraftRepository is the in-process DraftRepository used in tests and
// when running without Redis.
type MemoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]*model.Draft
}

func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{drafts: make(map[string]*model.Draft)}
}

func (r *MemoryDraftRepository) Get(_ context.Context, conversationID string) (*model.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[conversationID]
	if !ok {
		return nil, nil
	}
	cp := *d
	cp.Items = append([]model.CartItem(nil), d.Items...)
	return &cp, nil
}

func (r *MemoryDraftRepository) Put(_ context.Context, conversationID string, draft *model.Draft) error {
	cp := *draft
	cp.Items = append([]model.CartItem(nil), draft.Items...)
	r.mu.Lock()
	r.drafts[conversationID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *MemoryDraftRepository) Delete(_ context.Context, conversationID string) error {
	r.mu.Lock()
	delete(r.drafts, conversationID)
	r.mu.Unlock()
	return nil
}

var _ model.DraftRepository = (*MemoryDraftRepository)(nil)

// MemoryOrderRepository assigns sequential ids and keeps orders newest first
// on List.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	nextID int64
	orders []model.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{nextID: 1}
}

func (r *MemoryOrderRepository) Insert(_ context.Context, conversationID string, items []model.CartItem, total float64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := model.Order{
		ID:          r.nextID,
		PhoneNumber: conversationID,
		Items:       append([]model.CartItem(nil), items...),
		Total:       total,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	}
	r.nextID++
	r.orders = append(r.orders, o)
	return o.ID, nil
}

func (r *MemoryOrderRepository) List(_ context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		out = append(out, r.orders[i])
	}
	return out, nil
}

var _ model.OrderRepository = (*MemoryOrderRepository)(nil)

// MemoryConversationRepository keeps bounded transcripts in process.
type MemoryConversationRepository struct {
	mu          sync.Mutex
	maxMessages int
	history     map[string][]model.TranscriptMessage
}

func NewMemoryConversationRepository(maxMessages int) *MemoryConversationRepository {
	if maxMessages <= 0 {
		maxMessages = 10
	}
	return &MemoryConversationRepository{
		maxMessages: maxMessages,
		history:     make(map[string][]model.TranscriptMessage),
	}
}

func (r *MemoryConversationRepository) AddMessage(_ context.Context, conversationID string, msg model.TranscriptMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := append(r.history[conversationID], msg)
	if len(h) > r.maxMessages {
		h = h[len(h)-r.maxMessages:]
	}
	r.history[conversationID] = h
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, conversationID string) ([]model.TranscriptMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.TranscriptMessage(nil), r.history[conversationID]...), nil
}

func (r *MemoryConversationRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	delete(r.history, conversationID)
	r.mu.Unlock()
	return nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
