// -----------------------------------------------------------------------
// Document Q&A session - chunk, embed and query one uploaded document
// -----------------------------------------------------------------------

package documents

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/templates"
)

// ErrEmptyIndex is returned when a session is queried before any document was ingested
var ErrEmptyIndex = errors.New("no document has been ingested")

// ErrUnsupportedFile is returned for files other than PDF, text and markdown
var ErrUnsupportedFile = errors.New("unsupported document type")

// Session owns the chunks and vectors of one document. Ingest replaces the
// index under the write lock; queries share the read lock.
type Session struct {
	embedder  interfaces.Embedder
	extractor interfaces.PDFExtractor
	generator interfaces.NarrativeGenerator
	template  *templates.Template
	chunkSize int
	overlap   int
	topK      int
	logger    arbor.ILogger

	mu      sync.RWMutex
	source  string
	chunks  []models.DocumentChunk
	vectors [][]float32
}

// NewSession creates an empty document session
func NewSession(config *common.DocumentsConfig, templatesDir string, embedder interfaces.Embedder, extractor interfaces.PDFExtractor, generator interfaces.NarrativeGenerator, logger arbor.ILogger) (*Session, error) {
	tmpl, err := templates.GetTemplate(templates.DocumentQA, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load document template: %w", err)
	}

	topK := config.TopK
	if topK <= 0 {
		topK = 3
	}

	return &Session{
		embedder:  embedder,
		extractor: extractor,
		generator: generator,
		template:  tmpl,
		chunkSize: config.ChunkSize,
		overlap:   config.ChunkOverlap,
		topK:      topK,
		logger:    logger,
	}, nil
}

// IngestFile reads a PDF, text or markdown file and indexes its content
func (s *Session) IngestFile(ctx context.Context, path string) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := s.extractor.ExtractText(ctx, path)
		if err != nil {
			return err
		}
		content = text
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		content = string(data)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}

	return s.ingest(ctx, filepath.Base(path), content)
}

// IngestText indexes raw text, replacing any previously ingested document
func (s *Session) IngestText(ctx context.Context, text string) error {
	return s.ingest(ctx, "text", text)
}

func (s *Session) ingest(ctx context.Context, source, text string) error {
	pieces := Chunk(text, s.chunkSize, s.overlap)
	if len(pieces) == 0 {
		return fmt.Errorf("document %s contains no extractable text", source)
	}

	vectors, err := s.embedder.Embed(ctx, pieces)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", source, err)
	}
	if len(vectors) != len(pieces) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(pieces))
	}

	chunks := make([]models.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.DocumentChunk{Index: i, Source: source, Text: piece}
	}

	s.mu.Lock()
	s.source = source
	s.chunks = chunks
	s.vectors = vectors
	s.mu.Unlock()

	s.logger.Info().
		Str("source", source).
		Int("chunks", len(chunks)).
		Msg("Document indexed")

	return nil
}

// Source returns the name of the ingested document, or empty
func (s *Session) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Len returns the number of indexed chunks
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Retrieve returns the k chunks nearest to the question by L2 distance, closest first
func (s *Session) Retrieve(ctx context.Context, question string, k int) ([]models.RetrievedChunk, error) {
	if k <= 0 {
		k = s.topK
	}

	// ingest swaps both slices wholesale, so a snapshot stays consistent
	s.mu.RLock()
	chunks, vectors := s.chunks, s.vectors
	s.mu.RUnlock()

	if len(chunks) == 0 {
		return nil, ErrEmptyIndex
	}

	query, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(query) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 question", len(query))
	}

	hits := make([]models.RetrievedChunk, 0, len(chunks))
	for i, vec := range vectors {
		dist, err := l2(query[0], vec)
		if err != nil {
			return nil, err
		}
		hits = append(hits, models.RetrievedChunk{DocumentChunk: chunks[i], Distance: dist})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Ask answers a question from the chunks nearest to it
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	hits, err := s.Retrieve(ctx, question, s.topK)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = hit.Text
	}

	prompt, err := s.template.Render(map[string]any{
		"Context":  strings.Join(parts, "\n\n"),
		"Question": question,
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug().
		Int("chunks", len(hits)).
		Int("prompt_length", len(prompt)).
		Msg("Answering document question")

	return s.generator.Generate(ctx, prompt)
}

func l2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d != %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
