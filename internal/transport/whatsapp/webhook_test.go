package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	reply    string
	lastFrom string
	lastText string
	calls    int
}

func (f *fakeEngine) HandleMessage(_ context.Context, conversationID, text string) string {
	f.calls++
	f.lastFrom = conversationID
	f.lastText = text
	return f.reply
}

type fakeSender struct {
	err      error
	lastTo   string
	lastText string
	calls    int
}

func (f *fakeSender) Send(_ context.Context, to, text string) error {
	f.calls++
	f.lastTo = to
	f.lastText = text
	return f.err
}

func newTestServer(engine *fakeEngine, sender *fakeSender) *httptest.Server {
	r := chi.NewRouter()
	NewHandler("secret-token", engine, sender).Register(r)
	return httptest.NewServer(r)
}

const inboundEnvelope = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "from": "15551234567",
          "text": {"body": "2 pizza margherita"}
        }]
      }
    }]
  }]
}`

func TestVerifyWithMatchingToken(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeSender{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/webhook?hub.verify_token=secret-token&hub.challenge=12345")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "12345", string(buf[:n]))
}

func TestVerifyWithWrongToken(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeSender{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/webhook?hub.verify_token=wrong&hub.challenge=12345")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReceiveDeliversToEngineAndSender(t *testing.T) {
	engine := &fakeEngine{reply: "Added to cart."}
	sender := &fakeSender{}
	srv := newTestServer(engine, sender)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(inboundEnvelope))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, "15551234567", engine.lastFrom)
	assert.Equal(t, "2 pizza margherita", engine.lastText)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "15551234567", sender.lastTo)
	assert.Equal(t, "Added to cart.", sender.lastText)
}

func TestReceiveAcknowledgesMalformedBody(t *testing.T) {
	engine := &fakeEngine{}
	srv := newTestServer(engine, &fakeSender{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	// the channel retries non-2xx responses, so bad bodies still get a 200
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, engine.calls)
}

func TestReceiveIgnoresStatusCallbacks(t *testing.T) {
	engine := &fakeEngine{}
	sender := &fakeSender{}
	srv := newTestServer(engine, sender)
	defer srv.Close()

	statusOnly := `{"entry":[{"changes":[{"value":{"messages":[]}}]}]}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(statusOnly))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, engine.calls)
	assert.Zero(t, sender.calls)
}

func TestReceiveAcknowledgesMissingSender(t *testing.T) {
	engine := &fakeEngine{}
	srv := newTestServer(engine, &fakeSender{})
	defer srv.Close()

	missingFrom := `{"entry":[{"changes":[{"value":{"messages":[{"text":{"body":"hi"}}]}}]}]}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(missingFrom))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, engine.calls)
}

func TestReceiveToleratesSendFailure(t *testing.T) {
	engine := &fakeEngine{reply: "ok"}
	sender := &fakeSender{err: errors.New("graph api 500")}
	srv := newTestServer(engine, sender)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(inboundEnvelope))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, sender.calls)
}
