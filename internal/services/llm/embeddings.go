package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/interfaces"
)

// Per-request input caps of the embedding APIs
const (
	OpenAIEmbedBatchSize = 2048
	GeminiEmbedBatchSize = 100
)

// embedInBatches calls embed on consecutive slices of at most size texts and
// joins the vectors in input order.
func embedInBatches(ctx context.Context, texts []string, size int, embed func(context.Context, []string) ([][]float32, error)) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch, err := embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding inputs %d-%d of %d: %w", start, end-1, len(texts), err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding inputs %d-%d: got %d vectors for %d inputs", start, end-1, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// OpenAIEmbedder produces embeddings with the OpenAI embeddings API
type OpenAIEmbedder struct {
	factory   *ProviderFactory
	model     string
	batchSize int
}

// Embed returns one vector per input text, in input order
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return embedInBatches(ctx, texts, e.batchSize, e.embedBatch)
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	client, err := e.factory.GetOpenAIClient()
	if err != nil {
		return nil, err
	}

	resp, err := withRetry(ctx, e.factory.retryConfig, e.factory.logger, ProviderOpenAI, func() (*openai.CreateEmbeddingResponse, error) {
		return client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
			Model: openai.EmbeddingModel(e.model),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings call failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(vectors) {
			return nil, fmt.Errorf("OpenAI returned embedding index %d out of range", idx)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[idx] = vec
	}

	return vectors, nil
}

// GeminiEmbedder produces embeddings with the Gemini embedContent API
type GeminiEmbedder struct {
	factory    *ProviderFactory
	model      string
	dimensions int32
	batchSize  int
}

// Embed returns one vector per input text, in input order
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return embedInBatches(ctx, texts, e.batchSize, e.embedBatch)
}

func (e *GeminiEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	client, err := e.factory.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	config := &genai.EmbedContentConfig{}
	if e.dimensions > 0 {
		dims := e.dimensions
		config.OutputDimensionality = &dims
	}

	resp, err := withRetry(ctx, e.factory.retryConfig, e.factory.logger, ProviderGemini, func() (*genai.EmbedContentResponse, error) {
		return client.Models.EmbedContent(ctx, e.model, contents, config)
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini embeddings call failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("Gemini returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// NewEmbedder creates the embedder selected by documents.embedder
func NewEmbedder(factory *ProviderFactory, config *common.Config, logger arbor.ILogger) (interfaces.Embedder, error) {
	switch ProviderType(config.Documents.Embedder) {
	case ProviderGemini:
		logger.Debug().Str("model", config.Gemini.EmbeddingModel).Msg("Using Gemini embeddings")
		return &GeminiEmbedder{
			factory:    factory,
			model:      config.Gemini.EmbeddingModel,
			dimensions: config.Gemini.EmbeddingDims,
			batchSize:  GeminiEmbedBatchSize,
		}, nil
	case ProviderOpenAI, "":
		model := config.OpenAI.EmbeddingModel
		if model == "" {
			model = string(openai.EmbeddingModelTextEmbedding3Small)
		}
		logger.Debug().Str("model", model).Msg("Using OpenAI embeddings")
		return &OpenAIEmbedder{factory: factory, model: model, batchSize: OpenAIEmbedBatchSize}, nil
	default:
		return nil, &common.ConfigError{
			Field:  "documents.embedder",
			Reason: fmt.Sprintf("unsupported embedder %q (expected openai or gemini)", config.Documents.Embedder),
		}
	}
}
