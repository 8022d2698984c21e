package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type storedFact struct {
	id       string
	content  string
	metadata map[string]any
}

// InMemoryProvider is a naive process‑local Provider. Facts live in per-user
// append-only slices and Search performs keyword overlap scoring: the score is
// the fraction of query terms appearing in the fact content (case folded).
//
// Concurrency: protected by RWMutex. Suitable for tests and single-node
// deployments; swap for ChromemProvider when semantic recall is needed.
type InMemoryProvider struct {
	mu    sync.RWMutex
	facts map[string][]storedFact // userID -> facts
}

// NewInMemoryProvider creates an empty keyword-matching provider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{facts: make(map[string][]storedFact)}
}

// Add appends a fact for the user.
func (p *InMemoryProvider) Add(_ context.Context, userID, content string, metadata map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	p.facts[userID] = append(p.facts[userID], storedFact{
		id:       uuid.NewString(),
		content:  content,
		metadata: md,
	})
	return nil
}

// Search scores each stored fact by query term overlap and returns the top
// matches ordered by descending score. Facts with no overlapping term are
// excluded.
func (p *InMemoryProvider) Search(_ context.Context, userID, query string, limit int) ([]Fact, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var results []Fact
	for _, f := range p.facts[userID] {
		content := strings.ToLower(f.content)
		hits := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		md := make(map[string]any, len(f.metadata))
		for k, v := range f.metadata {
			md[k] = v
		}
		results = append(results, Fact{
			ID:       f.id,
			Content:  f.content,
			Score:    float64(hits) / float64(len(terms)),
			Metadata: md,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Len reports the number of facts stored for the user.
func (p *InMemoryProvider) Len(userID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.facts[userID])
}
