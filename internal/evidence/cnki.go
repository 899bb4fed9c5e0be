package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/worker"
)

// CnkiSource queries a CNKI open-API gateway for Chinese-language literature.
// It is consulted only as the secondary source, and only operates when both
// the endpoint and the credential are configured; otherwise every search
// returns empty without error.
type CnkiSource struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	limiter    *worker.Limiter
}

// NewCnkiSource creates a new CNKI source.
func NewCnkiSource(apiURL, apiKey string, timeout time.Duration, limiter *worker.Limiter) *CnkiSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &CnkiSource{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// Name returns the source name.
func (s *CnkiSource) Name() string {
	return "cnki"
}

// Configured reports whether the source can actually reach a backend.
func (s *CnkiSource) Configured() bool {
	return s.apiURL != "" && s.apiKey != ""
}

type cnkiRequest struct {
	Keywords []string `json:"keywords"`
	Limit    int      `json:"limit"`
}

type cnkiResponse struct {
	Items []cnkiItem `json:"items"`
}

type cnkiItem struct {
	Title      string `json:"title"`
	Authors    string `json:"authors"`
	Year       string `json:"year"`
	Source     string `json:"source"`
	Identifier string `json:"identifier"`
	Summary    string `json:"summary"`
	URL        string `json:"url"`
}

// Search queries the gateway for entries matching all keywords.
func (s *CnkiSource) Search(ctx context.Context, terms []string, limit int) ([]model.EvidenceItem, error) {
	if !s.Configured() || len(terms) == 0 {
		return nil, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, hostOf(s.apiURL)); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(cnkiRequest{Keywords: terms, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cnki request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cnki status: %d", resp.StatusCode)
	}

	var parsed cnkiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	items := make([]model.EvidenceItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		source := it.Source
		if source == "" {
			source = "CNKI"
		}
		items = append(items, model.EvidenceItem{
			Title:      it.Title,
			Authors:    it.Authors,
			Year:       it.Year,
			Source:     source,
			Identifier: it.Identifier,
			Summary:    it.Summary,
			URL:        it.URL,
		})
	}
	return items, nil
}
