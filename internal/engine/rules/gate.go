package rules

import (
	"strings"

	"github.com/orderchat-poc/server/internal/catalog"
)

// ControlIntent is a session-control decision derived from keywords alone.
type ControlIntent int

const (
	ControlNone ControlIntent = iota
	ControlStart
	ControlConfirm
	ControlCancel
)

func (c ControlIntent) String() string {
	switch c {
	case ControlStart:
		return "start"
	case ControlConfirm:
		return "confirm"
	case ControlCancel:
		return "cancel"
	default:
		return "none"
	}
}

var (
	startKeywords   = map[string]bool{"start": true, "order": true, "menu": true}
	confirmKeywords = map[string]bool{"confirm": true, "yes": true, "y": true, "place order": true}
	cancelKeywords  = map[string]bool{"cancel": true, "no": true, "n": true, "abort": true}
)

// numberWords maps the spelled-out quantities the engine recognizes. Values
// outside one..ten written as words are deliberately not recognized.
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// HeuristicGate classifies session-control intents from fixed keyword sets.
// It never calls out; the catalog is used only for food-word hints.
type HeuristicGate struct {
	cat *catalog.Catalog
}

func NewHeuristicGate(cat *catalog.Catalog) *HeuristicGate {
	return &HeuristicGate{cat: cat}
}

// ClassifyControl resolves the control intent for a message given whether a
// draft currently exists. Start is only recognized while idle; Cancel and
// Confirm only while drafting, checked in that order.
func (g *HeuristicGate) ClassifyControl(text string, drafting bool) ControlIntent {
	if !drafting {
		if g.WantsToStart(text) {
			return ControlStart
		}
		return ControlNone
	}
	if g.WantsToCancel(text) {
		return ControlCancel
	}
	if g.WantsToConfirm(text) {
		return ControlConfirm
	}
	return ControlNone
}

// WantsToStart reports whether the whole normalized text or its first token
// is a start keyword.
func (g *HeuristicGate) WantsToStart(text string) bool {
	return matchKeyword(text, startKeywords)
}

// WantsToConfirm tolerates trailing punctuation by also prefix-matching on
// "confirm".
func (g *HeuristicGate) WantsToConfirm(text string) bool {
	t := catalog.Normalize(text)
	if confirmKeywords[t] {
		return true
	}
	return strings.HasPrefix(t, "confirm")
}

// WantsToCancel matches the cancel keyword set exactly.
func (g *HeuristicGate) WantsToCancel(text string) bool {
	return matchKeyword(text, cancelKeywords)
}

func matchKeyword(text string, set map[string]bool) bool {
	t := catalog.Normalize(text)
	if set[t] {
		return true
	}
	if first, _, ok := strings.Cut(t, " "); ok {
		return set[first]
	}
	return false
}

// LooksLikeOrder is a weak secondary signal: the text mentions a quantity
// (digit or number word) or a literal catalog food word. It is never used as
// a sole gate.
func (g *HeuristicGate) LooksLikeOrder(text string) bool {
	t := catalog.Normalize(text)
	for _, tok := range Tokenize(t) {
		if isDigits(tok) {
			return true
		}
		if _, ok := numberWords[tok]; ok {
			return true
		}
	}
	if g.cat == nil {
		return false
	}
	for _, w := range g.cat.GenericTerms() {
		if containsWord(t, w) {
			return true
		}
	}
	for _, name := range g.cat.Names() {
		if strings.Contains(t, name) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for _, tok := range Tokenize(text) {
		if tok == word {
			return true
		}
	}
	return false
}
