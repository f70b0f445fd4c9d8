package session

import (
	"context"
	"fmt"
	"time"

	"github.com/orderchat-poc/server/internal/catalog"
	errx "github.com/orderchat-poc/server/internal/core/error"
	"github.com/orderchat-poc/server/internal/engine/model"
	"github.com/orderchat-poc/server/internal/engine/rules"
	logx "github.com/orderchat-poc/server/pkg/logger"
)

// ItemExtractor is the LLM extraction contract the assembler depends on. A
// nil result means the message held no order-relevant content; errors are
// treated exactly the same way.
type ItemExtractor interface {
	Extract(ctx context.Context, text string) (*model.Extraction, error)
}

// ConfidenceGate decides whether a message justifies the LLM path.
type ConfidenceGate interface {
	ShouldInvokeLLM(ctx context.Context, text string) bool
}

// Config wires the assembler's collaborators. Confidence and Transcripts are
// optional; everything else is required.
type Config struct {
	Catalog     *catalog.Catalog
	Heuristics  *rules.HeuristicGate
	Confidence  ConfidenceGate
	Extractor   ItemExtractor
	Drafts      model.DraftRepository
	Orders      model.OrderRepository
	Transcripts model.ConversationRepository
}

// Assembler owns the per-conversation draft lifecycle: it applies gate
// decisions, merges extraction results and drives start -> build ->
// confirm/cancel. Turns are serialized per conversation identifier.
type Assembler struct {
	cat         *catalog.Catalog
	heuristics  *rules.HeuristicGate
	confidence  ConfidenceGate
	extractor   ItemExtractor
	drafts      model.DraftRepository
	orders      model.OrderRepository
	transcripts model.ConversationRepository
	locks       *keyedMutex
}

func NewAssembler(cfg Config) (*Assembler, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if cfg.Heuristics == nil {
		return nil, fmt.Errorf("heuristic gate is nil")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is nil")
	}
	if cfg.Drafts == nil || cfg.Orders == nil {
		return nil, fmt.Errorf("draft and order repositories are required")
	}
	return &Assembler{
		cat:         cfg.Catalog,
		heuristics:  cfg.Heuristics,
		confidence:  cfg.Confidence,
		extractor:   cfg.Extractor,
		drafts:      cfg.Drafts,
		orders:      cfg.Orders,
		transcripts: cfg.Transcripts,
		locks:       newKeyedMutex(),
	}, nil
}

// HandleMessage processes one inbound message as a single serialized unit of
// work and returns the reply text. Collaborator failures degrade to
// plain-language prompts; nothing here is fatal.
func (a *Assembler) HandleMessage(ctx context.Context, conversationID, text string) string {
	unlock := a.locks.Lock(conversationID)
	defer unlock()

	a.record(ctx, conversationID, "user", text)

	reply := a.handle(ctx, conversationID, text)

	a.record(ctx, conversationID, "assistant", reply)
	return reply
}

func (a *Assembler) handle(ctx context.Context, conversationID, text string) string {
	draft, err := a.drafts.Get(ctx, conversationID)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to load draft")
		return replySystemError()
	}

	if draft == nil {
		return a.handleIdle(ctx, conversationID, text)
	}
	return a.handleDrafting(ctx, conversationID, draft, text)
}

// handleIdle covers the NoDraft state: only a start intent changes anything.
func (a *Assembler) handleIdle(ctx context.Context, conversationID, text string) string {
	if a.heuristics.ClassifyControl(text, false) != rules.ControlStart {
		return replyWelcome(a.cat)
	}

	if err := a.drafts.Put(ctx, conversationID, &model.Draft{Items: []model.CartItem{}}); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to create draft")
		return replySystemError()
	}
	a.record(ctx, conversationID, "system", "ordering_started")
	return replyStarted(a.cat)
}

func (a *Assembler) handleDrafting(ctx context.Context, conversationID string, draft *model.Draft, text string) string {
	switch a.heuristics.ClassifyControl(text, true) {
	case rules.ControlCancel:
		if err := a.drafts.Delete(ctx, conversationID); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to discard draft")
			return replySystemError()
		}
		return replyCanceled()

	case rules.ControlConfirm:
		return a.confirm(ctx, conversationID, draft)
	}

	return a.extendDraft(ctx, conversationID, draft, text)
}

func (a *Assembler) confirm(ctx context.Context, conversationID string, draft *model.Draft) string {
	if draft.Empty() {
		return replyEmptyCart()
	}

	orderID, err := a.orders.Insert(ctx, conversationID, draft.Items, draft.Total)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to persist order")
		return replySystemError()
	}
	if err := a.drafts.Delete(ctx, conversationID); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Int64("order_id", orderID).
			Msg("order persisted but draft not cleared")
	}

	logx.Info().Str("conversation_id", conversationID).Int64("order_id", orderID).
		Float64("total", draft.Total).Msg("order placed")
	return replyConfirmed(orderID)
}

// extendDraft is the item path: deterministic extraction first, the LLM only
// when that comes up empty and the confidence gate agrees.
func (a *Assembler) extendDraft(ctx context.Context, conversationID string, draft *model.Draft, text string) string {
	items, _ := rules.Extract(text, a.cat)
	var clarifications []string

	if len(items) == 0 {
		if a.confidence != nil && !a.confidence.ShouldInvokeLLM(ctx, text) {
			return replyNotOrderLike()
		}

		start := time.Now()
		extraction, err := a.extractor.Extract(ctx, text)
		if err != nil {
			// Degrade to "no extraction"; the turn must not fail on a backend error.
			logx.Warn().Err(err).
				Str("conversation_id", conversationID).
				Str("kind", errx.KindOf(err).String()).
				Dur("elapsed", time.Since(start)).
				Msg("llm extraction degraded to empty")
			extraction = nil
		}
		if extraction != nil {
			items = extraction.Items
			clarifications = extraction.NeedClarification
		}
	}

	if len(items) > 0 {
		draft = Merge(draft, items)
		if err := a.drafts.Put(ctx, conversationID, draft); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to store draft")
			return replySystemError()
		}
	}

	switch {
	case len(clarifications) > 0:
		// Clarification drives the reply even when some items landed; the
		// merged lines are still in the draft for the next summary.
		return replyClarification(a.cat, clarifications)
	case len(items) > 0:
		return replyCartSummary(draft)
	default:
		return replyTryAgain()
	}
}

func (a *Assembler) record(ctx context.Context, conversationID, role, content string) {
	if a.transcripts == nil {
		return
	}
	msg := model.TranscriptMessage{Role: role, Content: content, Timestamp: time.Now().UTC()}
	if err := a.transcripts.AddMessage(ctx, conversationID, msg); err != nil {
		logx.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to record transcript message")
	}
}
