package evidence

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/util"
	"github.com/zhangqin/crossgraph/internal/worker"
)

const defaultArxivURL = "http://export.arxiv.org/api/query"

// ArxivSource queries the arXiv export API. Queries are AND-joined over all
// terms, so a hit mentions every supplied alias.
type ArxivSource struct {
	apiURL     string
	httpClient *http.Client
	limiter    *worker.Limiter
}

// ArxivOptions configures the arXiv source.
type ArxivOptions struct {
	APIURL     string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
	Limiter    *worker.Limiter
}

// NewArxivSource creates a new arXiv source.
func NewArxivSource(opts ArxivOptions) *ArxivSource {
	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = defaultArxivURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &ArxivSource{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy),
			},
		},
		limiter: opts.Limiter,
	}
}

// Name returns the source name.
func (s *ArxivSource) Name() string {
	return "arxiv"
}

// Search queries arXiv for entries where all terms co-occur.
func (s *ArxivSource) Search(ctx context.Context, terms []string, limit int) ([]model.EvidenceItem, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, hostOf(s.apiURL)); err != nil {
			return nil, err
		}
	}

	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, fmt.Sprintf("all:%q", t))
	}

	params := url.Values{}
	params.Set("search_query", strings.Join(quoted, " AND "))
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv status: %d", resp.StatusCode)
	}

	decoder := xml.NewDecoder(resp.Body)
	decoder.CharsetReader = charset.NewReaderLabel

	var feed atomFeed
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}

	items := make([]model.EvidenceItem, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		items = append(items, entry.toEvidence())
	}
	return items, nil
}

// atomFeed is the subset of the arXiv Atom response the adapter reads.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

func (e atomEntry) toEvidence() model.EvidenceItem {
	names := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}

	// Prefer the PDF link; fall back to the abstract page.
	link := e.ID
	for _, l := range e.Links {
		if l.Title == "pdf" && l.Href != "" {
			link = l.Href
			break
		}
	}

	year := ""
	if len(e.Published) >= 4 {
		year = e.Published[:4]
	}

	identifier := ""
	if idx := strings.LastIndex(e.ID, "/abs/"); idx >= 0 {
		identifier = "arXiv:" + e.ID[idx+len("/abs/"):]
	}

	return model.EvidenceItem{
		Title:      collapseWhitespace(e.Title),
		Authors:    strings.Join(names, ", "),
		Year:       year,
		Source:     "arXiv",
		Identifier: identifier,
		Summary:    collapseWhitespace(e.Summary),
		URL:        link,
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}
