package model

import (
	"math"
	"time"
)

// CartItem is one validated cart line. Name is the catalog's canonical
// casing, UnitPrice is always the catalog's price at validation time, and
// LineTotal is always recomputed from Quantity and UnitPrice, never trusted
// from an external source.
type CartItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Draft is the in-progress cart for one conversation. At most one exists per
// conversation identifier; its absence means the session is idle.
type Draft struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// Empty reports whether the draft holds no items.
func (d *Draft) Empty() bool {
	return d == nil || len(d.Items) == 0
}

// Order is an immutable snapshot of a confirmed draft.
type Order struct {
	ID          int64      `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	Items       []CartItem `json:"items"`
	Total       float64    `json:"total"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Extraction is the outcome of one extraction pass: validated items plus the
// category keys that need a conversational follow-up. A single message can
// legitimately produce both.
type Extraction struct {
	Items             []CartItem `json:"items"`
	NeedClarification []string   `json:"needClarification"`
}

// Empty reports whether the extraction carries neither items nor clarifications.
func (e *Extraction) Empty() bool {
	return e == nil || (len(e.Items) == 0 && len(e.NeedClarification) == 0)
}

// TranscriptMessage is one conversation transcript record.
type TranscriptMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewCartItem builds a cart line with the line total recomputed from the
// given quantity and unit price.
func NewCartItem(name string, quantity int, unitPrice float64) CartItem {
	return CartItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: Round2(unitPrice * float64(quantity)),
	}
}
