package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderchat-poc/server/internal/catalog"
	errx "github.com/orderchat-poc/server/internal/core/error"
	"github.com/orderchat-poc/server/internal/engine/model"
)

type stubCompleter struct {
	reply    string
	err      error
	lastUser string
	lastSys  string
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userText string) (string, error) {
	s.lastSys = systemPrompt
	s.lastUser = userText
	return s.reply, s.err
}

func newTestExtractor(t *testing.T, c Completer) *Extractor {
	t.Helper()
	e, err := NewExtractor(c, catalog.Default(), &model.ExtractorModelConfig{
		MaxInputChars: 800,
		Timeout:       "5s",
	})
	require.NoError(t, err)
	return e
}

func TestExtractValidItems(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[{"name":"pizza margherita","quantity":2,"unit_price":12.0}],"needClarification":[]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "2 pizza margherita")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pizza Margherita", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 12.0, got.Items[0].UnitPrice)
	assert.Equal(t, 24.0, got.Items[0].LineTotal)
	assert.Empty(t, got.NeedClarification)
}

func TestExtractNeverTrustsModelPrice(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[{"name":"Pizza Margherita","quantity":1,"unit_price":0.01}]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "one pizza margherita")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 12.0, got.Items[0].UnitPrice)
	assert.Equal(t, 12.0, got.Items[0].LineTotal)
}

func TestExtractRejectsHallucinatedItems(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[{"name":"Free Golden Pizza","quantity":1,"unit_price":0},{"name":"Tiramisu","quantity":1,"unit_price":6.5}]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "tiramisu and a free golden pizza")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Tiramisu", got.Items[0].Name)
}

func TestExtractQuantityForms(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"integer", `{"items":[{"name":"Tiramisu","quantity":3}]}`, 3},
		{"digit string", `{"items":[{"name":"Tiramisu","quantity":"4"}]}`, 4},
		{"number word", `{"items":[{"name":"Tiramisu","quantity":"two"}]}`, 2},
		{"missing defaults to one", `{"items":[{"name":"Tiramisu"}]}`, 1},
		{"garbage defaults to one", `{"items":[{"name":"Tiramisu","quantity":"plenty"}]}`, 1},
		{"fractional defaults to one", `{"items":[{"name":"Tiramisu","quantity":2.5}]}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t, &stubCompleter{reply: tt.reply})
			got, err := e.Extract(context.Background(), "tiramisu")
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got.Items, 1)
			assert.Equal(t, tt.want, got.Items[0].Quantity)
		})
	}
}

func TestExtractDropsNonPositiveQuantities(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[{"name":"Tiramisu","quantity":0},{"name":"Panna Cotta","quantity":-2}]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "desserts")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExtractClarificationFiltering(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[],"needClarification":["salads","drinks","pizzas","salads"]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "a salad and a pizza")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Items)
	// unknown category dropped, duplicates removed, sorted
	assert.Equal(t, []string{"pizzas", "salads"}, got.NeedClarification)
}

func TestExtractItemsAndClarificationTogether(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[{"name":"Chocolate Cake","quantity":1}],"needClarification":["salads"]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "a chocolate cake and a salad")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, []string{"salads"}, got.NeedClarification)
}

func TestExtractStripsFencesAndTrailingProse(t *testing.T) {
	c := &stubCompleter{reply: "```json\n{\"items\":[{\"name\":\"Greek Salad\",\"quantity\":1}]}\n```\nHope that helps!"}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "greek salad")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Greek Salad", got.Items[0].Name)
}

func TestExtractEmptyReplyIsNullResult(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[],"needClarification":[]}`}
	e := newTestExtractor(t, c)

	got, err := e.Extract(context.Background(), "what's the weather")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExtractMalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		kind  errx.Kind
	}{
		{"prose only", "I cannot help with that.", errx.KindMalformedResponse},
		{"unbalanced object", `{"items":[`, errx.KindMalformedResponse},
		{"array top level", `[1,2,3]`, errx.KindSchemaViolation},
		{"wrong shape", `{"items":"lots"}`, errx.KindSchemaViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t, &stubCompleter{reply: tt.reply})
			got, err := e.Extract(context.Background(), "2 pizza margherita")
			assert.Nil(t, got)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errx.KindOf(err))
		})
	}
}

func TestExtractCompleterFailure(t *testing.T) {
	e := newTestExtractor(t, &stubCompleter{err: errors.New("boom")})

	got, err := e.Extract(context.Background(), "2 pizza margherita")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, errx.KindUnavailable, errx.KindOf(err))
}

func TestExtractCompleterTimeout(t *testing.T) {
	e := newTestExtractor(t, &stubCompleter{err: context.DeadlineExceeded})

	got, err := e.Extract(context.Background(), "2 pizza margherita")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, errx.KindTimeout, errx.KindOf(err))
}

func TestExtractTruncatesUserText(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[]}`}
	e := newTestExtractor(t, c)

	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	_, _ = e.Extract(context.Background(), string(long))
	assert.Len(t, c.lastUser, 800)
}

func TestExtractTruncatesOnRuneBoundary(t *testing.T) {
	c := &stubCompleter{reply: `{"items":[]}`}
	e := newTestExtractor(t, c)

	// 799 ASCII bytes followed by multi-byte runes puts the cut mid-rune
	long := strings.Repeat("a", 799) + strings.Repeat("é", 10)
	_, _ = e.Extract(context.Background(), long)

	assert.True(t, utf8.ValidString(c.lastUser))
	assert.LessOrEqual(t, len(c.lastUser), 800)
	assert.Equal(t, strings.Repeat("a", 799), c.lastUser)
}

func TestSystemPromptCarriesCatalogAndRules(t *testing.T) {
	sys := BuildSystemPrompt(catalog.Default())

	assert.Contains(t, sys, "Pizza Margherita=$12")
	assert.Contains(t, sys, "[desserts]")
	assert.Contains(t, sys, "needClarification")
	assert.Contains(t, sys, "JSON ONLY")
	assert.Contains(t, sys, "ignore previous")
}
