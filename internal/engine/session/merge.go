package session

import (
	"github.com/orderchat-poc/server/internal/catalog"
	"github.com/orderchat-poc/server/internal/engine/model"
)

// Merge combines newly extracted items into a draft, keyed by lower-cased
// name. Quantities of an existing key add, and the line total is recomputed
// from the summed quantity and the fixed unit price, never by summing the two
// line totals, so repeated merges cannot accumulate rounding drift. The draft
// total is recomputed from scratch over all lines and rounded once at the
// end. Merge is commutative across permutations of the incoming batches.
func Merge(draft *model.Draft, items []model.CartItem) *model.Draft {
	if draft == nil {
		draft = &model.Draft{}
	}

	merged := make([]model.CartItem, len(draft.Items))
	copy(merged, draft.Items)

	index := make(map[string]int, len(merged))
	for i, it := range merged {
		index[catalog.Normalize(it.Name)] = i
	}

	for _, it := range items {
		key := catalog.Normalize(it.Name)
		if i, ok := index[key]; ok {
			qty := merged[i].Quantity + it.Quantity
			merged[i] = model.NewCartItem(merged[i].Name, qty, merged[i].UnitPrice)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, model.NewCartItem(it.Name, it.Quantity, it.UnitPrice))
	}

	total := 0.0
	for _, it := range merged {
		total += it.LineTotal
	}

	return &model.Draft{Items: merged, Total: model.Round2(total)}
}
