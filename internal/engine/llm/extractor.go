package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/orderchat-poc/server/internal/catalog"
	errx "github.com/orderchat-poc/server/internal/core/error"
	"github.com/orderchat-poc/server/internal/engine/model"
	"github.com/orderchat-poc/server/internal/engine/rules"
	logx "github.com/orderchat-poc/server/pkg/logger"
)

// Extractor is the prompt-constrained, injection-resistant wrapper around the
// completion capability. Everything the model claims is re-validated against
// the catalog; its prices are never trusted.
type Extractor struct {
	completer    Completer
	cat          *catalog.Catalog
	systemPrompt string
	maxInput     int
	timeout      time.Duration
}

func NewExtractor(completer Completer, cat *catalog.Catalog, cfg *model.ExtractorModelConfig) (*Extractor, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid extractor timeout %q: %w", cfg.Timeout, err)
	}
	maxInput := cfg.MaxInputChars
	if maxInput <= 0 {
		maxInput = 800
	}
	return &Extractor{
		completer:    completer,
		cat:          cat,
		systemPrompt: BuildSystemPrompt(cat),
		maxInput:     maxInput,
		timeout:      timeout,
	}, nil
}

// rawPayload is the only reply shape the model is allowed to produce.
// Quantity stays untyped here: integers, digit strings and number words all
// occur in practice.
type rawPayload struct {
	Items []struct {
		Name      string `json:"name"`
		Quantity  any    `json:"quantity"`
		UnitPrice any    `json:"unit_price"`
	} `json:"items"`
	NeedClarification []string `json:"needClarification"`
}

// Extract runs the LLM path for one message. The returned error carries an
// errx.Kind for the caller to pattern-match; a (nil, nil) result means the
// message held no order-relevant content. Callers must treat errors the same
// as an empty result, never as a hard failure.
func (e *Extractor) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	// Bounded input is an injection/cost defense, not a UX limit.
	userText := truncate(strings.TrimSpace(text), e.maxInput)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.completer.Complete(ctx, e.systemPrompt, userText)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errx.NewKind(err, errx.KindTimeout, "completion timed out")
		}
		return nil, errx.NewKind(err, errx.KindUnavailable, "completion failed")
	}

	jsonStr := ExtractFirstJSONObject(StripCodeFences(raw))

	var probe any
	if err := json.Unmarshal([]byte(jsonStr), &probe); err != nil {
		logx.Warn().Err(err).Msg("extractor reply is not JSON")
		return nil, errx.NewKind(err, errx.KindMalformedResponse, "non-JSON extractor reply")
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, errx.NewKind(fmt.Errorf("top level is %T", probe), errx.KindSchemaViolation, "non-object extractor reply")
	}

	var payload rawPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		logx.Warn().Err(err).Msg("extractor reply failed structured parsing")
		return nil, errx.NewKind(err, errx.KindSchemaViolation, "unexpected extractor reply shape")
	}

	extraction := &model.Extraction{
		Items:             e.validateItems(payload),
		NeedClarification: e.filterClarifications(payload.NeedClarification),
	}
	if extraction.Empty() {
		return nil, nil
	}
	return extraction, nil
}

// validateItems keeps only claims that exact-match a catalog entry, with the
// catalog's price and a recomputed line total.
func (e *Extractor) validateItems(payload rawPayload) []model.CartItem {
	var items []model.CartItem
	for _, it := range payload.Items {
		name := catalog.Normalize(it.Name)
		if name == "" {
			continue
		}
		price, ok := e.cat.Lookup(name)
		if !ok {
			logx.Debug().Str("name", name).Msg("dropping item not present in catalog")
			continue
		}
		qty := normalizeQuantity(it.Quantity)
		if qty <= 0 {
			continue
		}
		display, _ := e.cat.DisplayName(name)
		items = append(items, model.NewCartItem(display, qty, price))
	}
	return items
}

// filterClarifications keeps category keys that exist in the catalog,
// deduplicated and sorted for determinism.
func (e *Extractor) filterClarifications(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		k = catalog.Normalize(k)
		if k == "" || seen[k] || !e.cat.HasCategory(k) {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// truncate cuts s to at most max bytes, backing off to a rune boundary so the
// cut never produces invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// normalizeQuantity accepts integers, digit strings and the number words
// one..ten. Any other form defaults to 1; non-positive values keep their sign
// so the caller can drop the item.
func normalizeQuantity(v any) int {
	switch q := v.(type) {
	case nil:
		return 1
	case float64:
		if q != float64(int(q)) {
			return 1
		}
		return int(q)
	case int:
		return q
	case string:
		if n, ok := rules.ParseQuantity(strings.ToLower(strings.TrimSpace(q))); ok {
			return n
		}
		return 1
	default:
		return 1
	}
}
