package intent

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// Scorer assigns a text a probability of carrying order intent.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// PrototypeScorer is the untrained fallback: the maximum cosine similarity of
// the message embedding against a small fixed set of prototype phrases.
type PrototypeScorer struct {
	embedder Embedder
	phrases  []string

	mu     sync.Mutex
	protos [][]float64
}

func NewPrototypeScorer(embedder Embedder, phrases []string) *PrototypeScorer {
	return &PrototypeScorer{embedder: embedder, phrases: phrases}
}

// prototypes embeds the prototype phrases on first use. A failed attempt is
// not cached; the next call retries, so a transient embedding outage on the
// first turn does not disable scoring for the process lifetime.
func (s *PrototypeScorer) prototypes(ctx context.Context) ([][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.protos != nil {
		return s.protos, nil
	}
	if len(s.phrases) == 0 {
		return nil, fmt.Errorf("no prototype phrases configured")
	}
	protos, err := s.embedder.Embed(ctx, s.phrases)
	if err != nil {
		return nil, err
	}
	s.protos = protos
	return protos, nil
}

func (s *PrototypeScorer) Score(ctx context.Context, text string) (float64, error) {
	protos, err := s.prototypes(ctx)
	if err != nil {
		return 0, err
	}

	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return 0, err
	}

	best := 0.0
	for _, p := range protos {
		if sim := cosine(vecs[0], p); sim > best {
			best = sim
		}
	}
	return best, nil
}

// LogisticScorer is logistic regression over embeddings, fit from labeled
// examples. There is no ML dependency in the stack; plain SGD over a single
// linear layer is all this needs.
type LogisticScorer struct {
	embedder Embedder

	mu      sync.RWMutex
	weights []float64
	bias    float64
	trained bool
}

func NewLogisticScorer(embedder Embedder) *LogisticScorer {
	return &LogisticScorer{embedder: embedder}
}

// Fit trains the classifier on texts with 0/1 labels.
func (s *LogisticScorer) Fit(ctx context.Context, texts []string, labels []int, epochs int, lr float64) error {
	if len(texts) == 0 || len(texts) != len(labels) {
		return fmt.Errorf("fit: need matching non-empty texts and labels")
	}
	if epochs <= 0 {
		epochs = 100
	}
	if lr <= 0 {
		lr = 0.1
	}

	xs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}

	dim := len(xs[0])
	w := make([]float64, dim)
	b := 0.0
	for epoch := 0; epoch < epochs; epoch++ {
		for i, x := range xs {
			if len(x) != dim {
				return fmt.Errorf("fit: embedding dimension mismatch at sample %d", i)
			}
			p := sigmoid(dot(w, x) + b)
			grad := p - float64(labels[i])
			for j := range w {
				w[j] -= lr * grad * x[j]
			}
			b -= lr * grad
		}
	}

	s.mu.Lock()
	s.weights, s.bias, s.trained = w, b, true
	s.mu.Unlock()
	return nil
}

// Trained reports whether Fit has completed at least once.
func (s *LogisticScorer) Trained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

func (s *LogisticScorer) Score(ctx context.Context, text string) (float64, error) {
	s.mu.RLock()
	w, b, trained := s.weights, s.bias, s.trained
	s.mu.RUnlock()
	if !trained {
		return 0, fmt.Errorf("score: classifier not trained")
	}

	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return 0, err
	}
	if len(vecs[0]) != len(w) {
		return 0, fmt.Errorf("score: embedding dimension mismatch")
	}
	return sigmoid(dot(w, vecs[0]) + b), nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dotp, na, nb float64
	for i := range a {
		dotp += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dotp / (math.Sqrt(na) * math.Sqrt(nb))
}
