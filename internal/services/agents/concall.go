package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/interfaces"
	"github.com/ternarybob/fundalyst/internal/models"
	"github.com/ternarybob/fundalyst/internal/services/heuristics"
	"github.com/ternarybob/fundalyst/internal/templates"
)

const (
	// TranscriptLimit caps transcript text sent to the model
	TranscriptLimit = 10000

	// TranscriptUnavailable is the narrative of a concall record without a transcript
	TranscriptUnavailable = "Transcript could not be retrieved from public sources."
)

// transcriptURLKeywords identify search results that look like call transcripts
var transcriptURLKeywords = []string{"transcript", "earnings", "conference-call", "concall"}

// ConcallData is the input to an earnings call analysis
type ConcallData struct {
	Ticker     string
	URL        string
	Transcript string
}

// ConcallAgent reads management tone and guidance from earnings call transcripts
type ConcallAgent struct {
	search   interfaces.SearchGateway
	template *templates.Template
	logger   arbor.ILogger
}

var _ InsightAgent[*ConcallData, *models.ConcallRecord] = (*ConcallAgent)(nil)

// NewConcallAgent creates the concall agent
func NewConcallAgent(search interfaces.SearchGateway, templatesDir string, logger arbor.ILogger) (*ConcallAgent, error) {
	tmpl, err := templates.GetTemplate(templates.Concall, templatesDir)
	if err != nil {
		return nil, err
	}
	return &ConcallAgent{
		search:   search,
		template: tmpl,
		logger:   logger,
	}, nil
}

// Kind returns CONCALL
func (a *ConcallAgent) Kind() models.AgentKind {
	return models.AgentConcall
}

// TranscriptQuery is the search used to find a recent earnings call transcript
func TranscriptQuery(ticker string) string {
	return fmt.Sprintf("%s latest earnings conference call transcript site:trendlyne.com OR site:moneycontrol.com OR site:investorrelations.com", ticker)
}

// IsTranscriptURL reports whether url looks like a call transcript page
func IsTranscriptURL(url string) bool {
	for _, kw := range transcriptURLKeywords {
		if strings.Contains(url, kw) {
			return true
		}
	}
	return false
}

// GatherData finds and fetches a transcript. Failures leave the transcript
// empty rather than returning an error.
func (a *ConcallAgent) GatherData(ctx context.Context, ticker string) (*ConcallData, error) {
	data := &ConcallData{Ticker: ticker}

	results, err := a.search.Search(ctx, TranscriptQuery(ticker))
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("ticker", ticker).
			Msg("Transcript search failed")
		return data, nil
	}

	for _, r := range results {
		if r.URL == "" || !IsTranscriptURL(r.URL) {
			continue
		}
		text, err := a.search.Fetch(ctx, r.URL)
		if err != nil {
			a.logger.Debug().Err(err).Str("url", r.URL).Msg("Transcript fetch failed, trying next result")
			continue
		}
		data.URL = r.URL
		data.Transcript = heuristics.Truncate(text, TranscriptLimit)
		break
	}

	return data, nil
}

// Unavailable returns the placeholder record when no transcript was found
func (a *ConcallAgent) Unavailable(ticker string, data *ConcallData) (*models.ConcallRecord, bool) {
	if strings.TrimSpace(data.Transcript) != "" {
		return nil, false
	}
	return &models.ConcallRecord{
		Ticker:      ticker,
		Narrative:   TranscriptUnavailable,
		Sentiment:   models.SentimentUnknown,
		Confidence:  models.ConfidenceUnknown,
		RawThoughts: []string{},
		Available:   false,
	}, true
}

// BuildPrompt renders the transcript analysis prompt
func (a *ConcallAgent) BuildPrompt(data *ConcallData) (string, error) {
	return a.template.Render(map[string]any{
		"Ticker":     data.Ticker,
		"Transcript": data.Transcript,
	})
}

// ParseReply extracts sentiment and confidence from the reply
func (a *ConcallAgent) ParseReply(ticker string, data *ConcallData, reply string) *models.ConcallRecord {
	sentiment, confidence := heuristics.ExtractSentiment(reply)
	return &models.ConcallRecord{
		Ticker:      ticker,
		Narrative:   reply,
		Sentiment:   sentiment,
		Confidence:  confidence,
		RawThoughts: []string{reply},
		Available:   true,
	}
}
