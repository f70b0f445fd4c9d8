package rules

import (
	"strconv"
	"strings"

	"github.com/orderchat-poc/server/internal/catalog"
	"github.com/orderchat-poc/server/internal/engine/model"
)

// quantityLookback is how many tokens may sit between a quantity and the
// item name it applies to.
const quantityLookback = 3

// Tokenize lowercases, splits on whitespace and trims punctuation from token
// edges, so "2x Pizza, please!" yields ["2x" -> "2x"... ] predictable units.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseQuantity recognizes digit runs and the number words one..ten.
func ParseQuantity(tok string) (int, bool) {
	if isDigits(tok) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	if n, ok := numberWords[tok]; ok {
		return n, true
	}
	return 0, false
}

// Extract runs the deterministic extraction path: every catalog item name
// contained as a substring of the normalized message is extracted, each with
// the nearest quantity found within the preceding lookback window (default
// 1). Substring matching keeps recall generous and tolerates suffixed forms
// like "margheritas"; results are still catalog-priced here and re-validated
// by the merge path, so there is no hallucination risk, only mis-attributed
// quantities.
func Extract(text string, cat *catalog.Catalog) ([]model.CartItem, float64) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, 0
	}

	joined := strings.Join(tokens, " ")
	var items []model.CartItem
	total := 0.0
	for _, name := range cat.Names() {
		start, ok := matchPosition(joined, name)
		if !ok {
			continue
		}

		// The nearest quantity wins, scanning back over the quantity slot
		// plus up to quantityLookback intervening tokens.
		qty := 1
		for j := start - 1; j >= 0 && j >= start-quantityLookback-1; j-- {
			if n, ok := ParseQuantity(tokens[j]); ok && n > 0 {
				qty = n
				break
			}
		}

		price, _ := cat.Lookup(name)
		display, _ := cat.DisplayName(name)
		item := model.NewCartItem(display, qty, price)
		items = append(items, item)
		total += item.LineTotal
	}

	return items, model.Round2(total)
}

// matchPosition finds name as a substring of the space-joined token text and
// maps the match offset back to the index of the token it starts in, which
// anchors the quantity lookback.
func matchPosition(joined, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	idx := strings.Index(joined, name)
	if idx < 0 {
		return 0, false
	}
	return strings.Count(joined[:idx], " "), true
}
