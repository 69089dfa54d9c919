package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
)

func TestEmbedInBatches(t *testing.T) {
	texts := make([]string, 2700)
	for i := range texts {
		texts[i] = strconv.Itoa(i)
	}

	var calls, largest int
	embed := func(ctx context.Context, batch []string) ([][]float32, error) {
		calls++
		largest = max(largest, len(batch))
		out := make([][]float32, len(batch))
		for i, text := range batch {
			n, err := strconv.Atoi(text)
			require.NoError(t, err)
			out[i] = []float32{float32(n)}
		}
		return out, nil
	}

	vectors, err := embedInBatches(context.Background(), texts, GeminiEmbedBatchSize, embed)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	assert.Equal(t, GeminiEmbedBatchSize, largest)
	assert.Equal(t, 27, calls)
	for i, vec := range vectors {
		require.Equal(t, float32(i), vec[0], "vector %d out of order", i)
	}
}

func TestEmbedInBatchesErrors(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e"}

	t.Run("failing batch", func(t *testing.T) {
		calls := 0
		_, err := embedInBatches(context.Background(), texts, 2, func(ctx context.Context, batch []string) ([][]float32, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("quota exceeded")
			}
			return make([][]float32, len(batch)), nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inputs 2-3 of 5")
		assert.Equal(t, 2, calls)
	})

	t.Run("short batch", func(t *testing.T) {
		_, err := embedInBatches(context.Background(), texts, 2, func(ctx context.Context, batch []string) ([][]float32, error) {
			return make([][]float32, 1), nil
		})
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		vectors, err := embedInBatches(context.Background(), nil, 2, func(ctx context.Context, batch []string) ([][]float32, error) {
			t.Fatal("embed must not be called")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, vectors)
	})
}

func TestOpenAIEmbedderSplitsRequests(t *testing.T) {
	var requests, largest int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests++
		largest = max(largest, len(body.Input))

		data := make([]map[string]any, len(body.Input))
		for i, text := range body.Input {
			n, _ := strconv.Atoi(text)
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": []float64{float64(n)}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
			"data":   data,
		})
	}))
	defer server.Close()

	cfg := newOpenAITestConfig(server.URL + "/")
	embedder := &OpenAIEmbedder{
		factory:   NewProviderFactory(cfg, arbor.NewLogger()),
		model:     "text-embedding-3-small",
		batchSize: 3,
	}

	texts := make([]string, 7)
	for i := range texts {
		texts[i] = fmt.Sprint(i)
	}

	vectors, err := embedder.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 7)
	assert.Equal(t, 3, requests)
	assert.Equal(t, 3, largest)
	for i, vec := range vectors {
		assert.Equal(t, []float32{float32(i)}, vec)
	}
}

func TestNewEmbedderBatchSizes(t *testing.T) {
	cfg := common.NewDefaultConfig()
	factory := NewProviderFactory(cfg, arbor.NewLogger())

	embedder, err := NewEmbedder(factory, cfg, arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, OpenAIEmbedBatchSize, embedder.(*OpenAIEmbedder).batchSize)

	cfg.Documents.Embedder = common.LLMProviderGemini
	embedder, err = NewEmbedder(factory, cfg, arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, GeminiEmbedBatchSize, embedder.(*GeminiEmbedder).batchSize)
}
