package session

import (
	"fmt"
	"strings"

	"github.com/orderchat-poc/server/internal/catalog"
	"github.com/orderchat-poc/server/internal/engine/model"
)

func replyWelcome(cat *catalog.Catalog) string {
	return "Welcome! Reply with 'start' to begin ordering, or ask about our menu.\n" + cat.MenuText()
}

func replyStarted(cat *catalog.Catalog) string {
	return "Great! Let's start your order. You can say things like '2 Pizza Margherita and 1 Chocolate Cake'.\n" + cat.MenuText()
}

func replyCanceled() string {
	return "Order canceled. Reply 'start' to begin again."
}

func replyConfirmed(orderID int64) string {
	return fmt.Sprintf("Thanks! Your order #%d has been placed.", orderID)
}

func replyEmptyCart() string {
	return "Your cart is empty. Add some items before confirming."
}

func replyTryAgain() string {
	return "I can add items to your cart. For example: '2 Pizza Margherita'. When ready, reply 'confirm'."
}

func replyNotOrderLike() string {
	return "I'm here to help with ordering. Try: '2 Pizza Margherita'."
}

func replySystemError() string {
	return "Sorry, something went wrong on our side. Please try that again."
}

func replyCartSummary(draft *model.Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added to cart. Current total $%.2f:\n", draft.Total)
	for _, it := range draft.Items {
		fmt.Fprintf(&b, "- %d x %s = $%.2f\n", it.Quantity, it.Name, it.LineTotal)
	}
	b.WriteString("\nReply 'confirm' to place the order, or add more items.")
	return b.String()
}

func replyClarification(cat *catalog.Catalog, categories []string) string {
	var b strings.Builder
	b.WriteString("Happy to help, I just need a bit more detail.\n")
	for _, key := range categories {
		examples := cat.Examples(key, 3)
		fmt.Fprintf(&b, "Which of our %s would you like? For example: %s.\n", key, strings.Join(examples, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
