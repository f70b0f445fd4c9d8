package httpapi

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/orderchat-poc/server/internal/engine/model"
	logx "github.com/orderchat-poc/server/pkg/logger"
)

var ordersPage = template.Must(template.New("orders").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>Orders</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Inter,Arial,sans-serif;padding:24px;background:#f8fafc;color:#0f172a}
table{border-collapse:collapse;width:100%;background:#fff;box-shadow:0 1px 2px rgba(0,0,0,.06);border-radius:8px;overflow:hidden}
th,td{padding:12px 14px;border-bottom:1px solid #e2e8f0;vertical-align:top}
th{background:#f1f5f9;text-align:left;font-weight:600;color:#334155}
h1{margin:0 0 16px;font-size:24px}
ul{margin:0;padding-left:18px}
</style>
</head>
<body>
<h1>Customer Orders</h1>
<table>
<thead><tr><th>ID</th><th>Phone</th><th>Items</th><th>Total</th><th>Status</th><th>Created</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.ID}}</td>
<td>{{.PhoneNumber}}</td>
<td><ul>{{range .Items}}<li>{{.Quantity}} x {{.Name}} @ ${{printf "%.2f" .UnitPrice}} = ${{printf "%.2f" .LineTotal}}</li>{{end}}</ul></td>
<td>${{printf "%.2f" .Total}}</td>
<td>{{.Status}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
</tr>
{{else}}<tr><td colspan="6" style="text-align:center;padding:24px">No orders yet.</td></tr>
{{end}}</tbody>
</table>
</body>
</html>`))

type ordersHandler struct {
	orders model.OrderRepository
}

func (h *ordersHandler) listJSON(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		logx.Error().Err(err).Msg("failed to list orders")
		http.Error(w, "failed to list orders", http.StatusBadGateway)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"orders": orders})
}

func (h *ordersHandler) listHTML(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		logx.Error().Err(err).Msg("failed to list orders")
		http.Error(w, "failed to list orders", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ordersPage.Execute(w, orders); err != nil {
		logx.Error().Err(err).Msg("failed to render orders page")
	}
}
