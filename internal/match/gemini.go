package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hireloop/screener/internal/utils"
)

const (
	defaultEmbeddingModel = "text-embedding-004"
	retryBackoff          = time.Second
)

// GeminiEmbedder embeds texts through the Gemini API. Vectors are cached for
// the lifetime of the process so repeated tokens across applicants cost one
// API call.
type GeminiEmbedder struct {
	client     *genai.Client
	modelName  string
	maxRetries int
	logger     *zap.Logger

	cacheMu sync.RWMutex
	cache   map[string][]float32
}

// NewGeminiEmbedder creates an embedder configured for the Gemini API backend.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*GeminiEmbedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiEmbedder{
		client:     client,
		modelName:  model,
		maxRetries: maxRetries,
		logger:     logger,
		cache:      make(map[string][]float32),
	}, nil
}

// Embed returns one vector per text, serving repeats from the cache and
// batching the misses into a single API call.
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	result := make([][]float32, len(texts))
	var missing []string
	missingIdx := make(map[string][]int)

	g.cacheMu.RLock()
	for i, text := range texts {
		if vec, ok := g.cache[text]; ok {
			result[i] = vec
			continue
		}
		if len(missingIdx[text]) == 0 {
			missing = append(missing, text)
		}
		missingIdx[text] = append(missingIdx[text], i)
	}
	g.cacheMu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	vectors, err := g.embedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	g.cacheMu.Lock()
	for i, text := range missing {
		g.cache[text] = vectors[i]
		for _, idx := range missingIdx[text] {
			result[idx] = vectors[i]
		}
	}
	g.cacheMu.Unlock()

	return result, nil
}

func (g *GeminiEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	var resp *genai.EmbedContentResponse
	var err error
	for attempt := 0; ; attempt++ {
		resp, err = g.client.Models.EmbedContent(ctx, g.modelName, contents, nil)
		if err == nil {
			break
		}
		if attempt >= g.maxRetries {
			return nil, fmt.Errorf("embed content: %w", err)
		}

		g.logger.Warn("embedding request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("batch_size", len(texts)),
			zap.Error(err),
		)
		if waitErr := utils.WaitFor(ctx, retryBackoff*time.Duration(attempt+1)); waitErr != nil {
			return nil, waitErr
		}
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed content: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range resp.Embeddings {
		if embedding == nil {
			return nil, errors.New("embed content: empty embedding in response")
		}
		vectors[i] = embedding.Values
	}

	return vectors, nil
}

// Model returns the configured embedding model name.
func (g *GeminiEmbedder) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
