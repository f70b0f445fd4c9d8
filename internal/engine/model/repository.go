package model

import "context"

// DraftRepository stores at most one draft per conversation identifier.
// Get returns (nil, nil) when no draft exists; last write wins.
type DraftRepository interface {
	Get(ctx context.Context, conversationID string) (*Draft, error)
	Put(ctx context.Context, conversationID string, draft *Draft) error
	Delete(ctx context.Context, conversationID string) error
}

// OrderRepository is the append-only store of confirmed orders.
type OrderRepository interface {
	// Insert persists a confirmed draft and returns the assigned order id.
	Insert(ctx context.Context, conversationID string, items []CartItem, total float64) (int64, error)

	// List returns orders newest first.
	List(ctx context.Context) ([]Order, error)
}

// ConversationRepository keeps a bounded per-conversation transcript.
type ConversationRepository interface {
	AddMessage(ctx context.Context, conversationID string, msg TranscriptMessage) error
	LoadHistory(ctx context.Context, conversationID string) ([]TranscriptMessage, error)
	ClearHistory(ctx context.Context, conversationID string) error
}
