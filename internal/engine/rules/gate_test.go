package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orderchat-poc/server/internal/catalog"
)

func TestClassifyControlIdle(t *testing.T) {
	g := NewHeuristicGate(catalog.Default())

	tests := []struct {
		text string
		want ControlIntent
	}{
		{"start", ControlStart},
		{"  START  ", ControlStart},
		{"menu", ControlStart},
		{"order something for me", ControlStart},
		{"hello there", ControlNone},
		// cancel with no draft is not a cancel
		{"cancel", ControlNone},
		{"confirm", ControlNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.ClassifyControl(tt.text, false), "text %q", tt.text)
	}
}

func TestClassifyControlDrafting(t *testing.T) {
	g := NewHeuristicGate(catalog.Default())

	tests := []struct {
		text string
		want ControlIntent
	}{
		{"cancel", ControlCancel},
		{"no", ControlCancel},
		{"abort", ControlCancel},
		{"confirm", ControlConfirm},
		{"confirm!", ControlConfirm},
		{"confirming", ControlConfirm},
		{"yes", ControlConfirm},
		{"place order", ControlConfirm},
		// start keywords mean nothing while drafting
		{"start", ControlNone},
		{"2 pizza margherita", ControlNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.ClassifyControl(tt.text, true), "text %q", tt.text)
	}
}

func TestCancelWinsOverConfirm(t *testing.T) {
	// Cancel is checked first while drafting; a text in both keyword sets
	// resolves to cancel.
	g := NewHeuristicGate(catalog.Default())
	assert.Equal(t, ControlCancel, g.ClassifyControl("no", true))
}

func TestLooksLikeOrder(t *testing.T) {
	g := NewHeuristicGate(catalog.Default())

	assert.True(t, g.LooksLikeOrder("2 of those please"))
	assert.True(t, g.LooksLikeOrder("two of those please"))
	assert.True(t, g.LooksLikeOrder("a pizza would be nice"))
	assert.True(t, g.LooksLikeOrder("give me a Spaghetti Carbonara"))
	assert.False(t, g.LooksLikeOrder("how late are you open"))
	assert.False(t, g.LooksLikeOrder(""))
}
