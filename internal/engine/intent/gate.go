package intent

import (
	"context"

	logx "github.com/orderchat-poc/server/pkg/logger"
)

// Gate bounds spend and risk on the LLM extraction path. It is an
// optimization layer: when scoring fails the answer is to invoke, never to
// drop the turn.
type Gate struct {
	scorer    Scorer
	threshold float64
}

func NewGate(scorer Scorer, threshold float64) *Gate {
	return &Gate{scorer: scorer, threshold: threshold}
}

// ShouldInvokeLLM reports whether the message is order-like enough for the
// LLM extractor. A nil scorer means the gate is disabled and every message
// passes.
func (g *Gate) ShouldInvokeLLM(ctx context.Context, text string) bool {
	if g == nil || g.scorer == nil {
		return true
	}

	score, err := g.scorer.Score(ctx, text)
	if err != nil {
		logx.Warn().Err(err).Msg("intent scoring failed, passing message through")
		return true
	}

	pass := score >= g.threshold
	logx.Debug().
		Float64("score", score).
		Float64("threshold", g.threshold).
		Bool("invoke_llm", pass).
		Msg("confidence gate decision")
	return pass
}
