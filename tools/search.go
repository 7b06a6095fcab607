package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"jarvis/config"
)

const (
	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	defaultNumResults  = 4
	maxNumResults      = 20
	searchTimeout      = 20 * time.Second
)

type SearchResult struct {
	Title   string
	Snippet string
	URL     string
}

// Searcher queries the DuckDuckGo HTML endpoint, which needs no API key.
type Searcher struct {
	endpoint string
	client   *http.Client
}

// NewSearcher returns a Searcher for endpoint; empty means DuckDuckGo.
func NewSearcher(endpoint string, client *http.Client) *Searcher {
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Searcher{endpoint: endpoint, client: client}
}

func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}
	return collectResults(doc, limit), nil
}

// collectResults walks the page: every result__a link opens a result and the
// following result__snippet fills it in.
func collectResults(doc *html.Node, limit int) []SearchResult {
	var results []SearchResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) > limit {
			return
		}
		if n.Type == html.ElementNode {
			class := attr(n, "class")
			switch {
			case n.Data == "a" && hasClass(class, "result__a"):
				results = append(results, SearchResult{
					Title: textContent(n),
					URL:   unwrapRedirect(attr(n, "href")),
				})
				return
			case hasClass(class, "result__snippet") && len(results) > 0:
				last := &results[len(results)-1]
				if last.Snippet == "" {
					last.Snippet = textContent(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func hasClass(class, want string) bool {
	for _, c := range strings.Fields(class) {
		if c == want {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// unwrapRedirect extracts the target of a //duckduckgo.com/l/?uddg=... link.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func (s *Searcher) webSearch(ctx context.Context, call Call) (string, error) {
	query := strings.TrimSpace(call.String("query"))
	if query == "" {
		return "Error: A search query must be provided.", nil
	}
	limit, err := call.Int("num_results")
	if err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = defaultNumResults
	}
	if limit > maxNumResults {
		limit = maxNumResults
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Search] Performing DuckDuckGo search for: %q", query)
	}

	results, err := s.Search(ctx, query, limit)
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("No search results found for '%s'.", query), nil
	}
	return FormatResults(results), nil
}

// FormatResults renders results as numbered Title/Snippet/Source blocks.
func FormatResults(results []SearchResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Result %d:\nTitle: %s\nSnippet: %s\nSource: %s", i+1, r.Title, r.Snippet, r.URL)
	}
	return strings.Join(blocks, "\n\n")
}

func (s *Searcher) Tool() Tool {
	return Tool{
		Name: "web_search",
		Params: []Param{
			{Name: "query"},
			{Name: "num_results", Default: int64(defaultNumResults), HasDefault: true},
		},
		Doc: "Performs a web search using DuckDuckGo and returns the top results. " +
			"Use this to find current information, facts, or answer general questions.",
		Func: s.webSearch,
	}
}
