package memory

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	openai "github.com/sashabaranov/go-openai"
)

// ChromemProvider stores facts in chromem-go collections with OpenAI
// embeddings for semantic recall. Each user gets a dedicated collection so
// queries never cross user boundaries.
type ChromemProvider struct {
	db              *chromem.DB
	client          *openai.Client
	embeddingsModel string

	mu          sync.Mutex
	collections map[string]*chromem.Collection
}

// ChromemOptions configure the chromem provider.
type ChromemOptions struct {
	// Path enables persistence under the given directory. Empty keeps the
	// database in memory only.
	Path string
	// EmbeddingsModel names the OpenAI embeddings model.
	EmbeddingsModel string
}

// NewChromemProvider creates a provider backed by chromem-go using the given
// OpenAI client for embeddings.
func NewChromemProvider(client *openai.Client, optFns ...func(o *ChromemOptions)) (*ChromemProvider, error) {
	opts := ChromemOptions{
		EmbeddingsModel: string(openai.AdaEmbeddingV2),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var db *chromem.DB
	if opts.Path != "" {
		var err error
		db, err = chromem.NewPersistentDB(opts.Path, true)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	return &ChromemProvider{
		db:              db,
		client:          client,
		embeddingsModel: opts.EmbeddingsModel,
		collections:     make(map[string]*chromem.Collection),
	}, nil
}

func (p *ChromemProvider) embedding() chromem.EmbeddingFunc {
	return chromem.EmbeddingFunc(
		func(ctx context.Context, text string) ([]float32, error) {
			resp, err := p.client.CreateEmbeddings(ctx,
				openai.EmbeddingRequestStrings{
					Input: []string{text},
					Model: openai.EmbeddingModel(p.embeddingsModel),
				},
			)
			if err != nil {
				return []float32{}, fmt.Errorf("error creating embeddings: %v", err)
			}

			if len(resp.Data) == 0 {
				return []float32{}, fmt.Errorf("no response from OpenAI API")
			}

			return resp.Data[0].Embedding, nil
		},
	)
}

func (p *ChromemProvider) collection(userID string) (*chromem.Collection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.collections[userID]; ok {
		return c, nil
	}
	c, err := p.db.GetOrCreateCollection("memory-"+userID, nil, p.embedding())
	if err != nil {
		return nil, fmt.Errorf("get collection for %s: %w", userID, err)
	}
	p.collections[userID] = c
	return c, nil
}

// Add embeds and stores the content in the user's collection.
func (p *ChromemProvider) Add(ctx context.Context, userID, content string, metadata map[string]any) error {
	if content == "" {
		return fmt.Errorf("empty content")
	}
	c, err := p.collection(userID)
	if err != nil {
		return err
	}
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = fmt.Sprint(v)
	}
	return c.AddDocuments(ctx, []chromem.Document{
		{
			ID:       uuid.NewString(),
			Content:  content,
			Metadata: md,
		},
	}, runtime.NumCPU())
}

// Search embeds the query and returns the most similar facts for the user.
func (p *ChromemProvider) Search(ctx context.Context, userID, query string, limit int) ([]Fact, error) {
	c, err := p.collection(userID)
	if err != nil {
		return nil, err
	}
	// chromem rejects queries asking for more results than stored documents.
	if count := c.Count(); count < limit {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}

	res, err := c.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(res))
	for _, r := range res {
		md := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			md[k] = v
		}
		facts = append(facts, Fact{
			ID:       r.ID,
			Content:  r.Content,
			Score:    float64(r.Similarity),
			Metadata: md,
		})
	}
	return facts, nil
}

// Reset drops the user's collection, discarding all stored facts.
func (p *ChromemProvider) Reset(userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.db.DeleteCollection("memory-" + userID); err != nil {
		return err
	}
	delete(p.collections, userID)
	return nil
}
