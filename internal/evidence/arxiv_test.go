package evidence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2107.05013v1</id>
    <title>Entropy   and
      Information Theory</title>
    <summary>  A survey of entropy
      in information theory.  </summary>
    <published>2021-07-11T12:00:00Z</published>
    <author><name>Alice Smith</name></author>
    <author><name>Bob Jones</name></author>
    <link href="http://arxiv.org/abs/2107.05013v1" rel="alternate"/>
    <link href="http://arxiv.org/pdf/2107.05013v1" rel="related" title="pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1234.5678v2</id>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <published>1998-01-02T00:00:00Z</published>
    <author><name>Carol</name></author>
  </entry>
</feed>`

func TestArxivSearch_ParsesFeed(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	s := NewArxivSource(ArxivOptions{APIURL: srv.URL})
	items, err := s.Search(context.Background(), []string{"entropy", "information theory"}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// AND query over all terms, each quoted.
	if !strings.Contains(gotQuery, `all:"entropy"`) || !strings.Contains(gotQuery, " AND ") {
		t.Errorf("unexpected search query: %q", gotQuery)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Entropy and Information Theory" {
		t.Errorf("title whitespace not collapsed: %q", first.Title)
	}
	if first.Authors != "Alice Smith, Bob Jones" {
		t.Errorf("authors = %q", first.Authors)
	}
	if first.Year != "2021" {
		t.Errorf("year = %q", first.Year)
	}
	if first.Identifier != "arXiv:2107.05013v1" {
		t.Errorf("identifier = %q", first.Identifier)
	}
	if first.URL != "http://arxiv.org/pdf/2107.05013v1" {
		t.Errorf("should prefer pdf link, got %q", first.URL)
	}
	if first.Source != "arXiv" {
		t.Errorf("source = %q", first.Source)
	}

	// No pdf link on the second entry: fall back to the abstract page.
	if items[1].URL != "http://arxiv.org/abs/1234.5678v2" {
		t.Errorf("fallback URL = %q", items[1].URL)
	}
}

func TestArxivSearch_EmptyTerms(t *testing.T) {
	s := NewArxivSource(ArxivOptions{APIURL: "http://example.invalid"})
	items, err := s.Search(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items for empty terms, got %d", len(items))
	}
}

func TestArxivSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewArxivSource(ArxivOptions{APIURL: srv.URL})
	if _, err := s.Search(context.Background(), []string{"entropy"}, 5); err == nil {
		t.Error("expected error for non-200 response")
	}
}
