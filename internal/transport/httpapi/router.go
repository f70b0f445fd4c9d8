package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/orderchat-poc/server/internal/engine/model"
)

const serviceName = "whatsapp-restaurant-bot"

// Webhook registers channel endpoints on a router.
type Webhook interface {
	Register(r chi.Router)
}

// NewRouter assembles the service's HTTP surface: health check, order views
// and the channel webhook.
func NewRouter(orders model.OrderRepository, webhook Webhook) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", health)

	oh := &ordersHandler{orders: orders}
	r.Get("/api/orders", oh.listJSON)
	r.Get("/orders", oh.listHTML)

	if webhook != nil {
		webhook.Register(r)
	}

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": serviceName})
}
