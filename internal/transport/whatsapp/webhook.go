package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	logx "github.com/orderchat-poc/server/pkg/logger"
)

// MessageHandler is the engine-facing contract: one inbound text in, one
// reply text out.
type MessageHandler interface {
	HandleMessage(ctx context.Context, conversationID, text string) string
}

// Handler adapts the WhatsApp webhook to the engine. Malformed payloads are
// absorbed here and never reach the engine.
type Handler struct {
	verifyToken string
	engine      MessageHandler
	sender      Sender
}

func NewHandler(verifyToken string, engine MessageHandler, sender Sender) *Handler {
	return &Handler{verifyToken: verifyToken, engine: engine, sender: sender}
}

// Register mounts the webhook endpoints on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/webhook", h.verify)
	r.Post("/webhook", h.receive)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if token != h.verifyToken {
		logx.Error().Msg("webhook verification failed")
		http.Error(w, "Verification failed", http.StatusForbidden)
		return
	}

	logx.Info().Msg("webhook verified successfully")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	// The channel retries on non-2xx, so everything below acknowledges.
	requestID := uuid.NewString()

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logx.Error().Err(err).Str("request_id", requestID).Msg("error decoding webhook body")
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	from, body, ok, err := payload.firstMessage()
	if err != nil {
		logx.Error().Err(err).Str("request_id", requestID).Msg("error parsing webhook data")
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}
	if !ok {
		// delivery/status callback, nothing to do
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	logx.Info().Str("request_id", requestID).Str("from", from).Str("text", body).Msg("inbound message")

	reply := h.engine.HandleMessage(r.Context(), from, body)
	if reply != "" {
		if err := h.sender.Send(r.Context(), from, reply); err != nil {
			logx.Error().Err(err).Str("request_id", requestID).Str("to", from).Msg("failed to send reply")
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
