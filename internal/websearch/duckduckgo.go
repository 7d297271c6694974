package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// maxResults bounds how many hits one search returns.
const maxResults = 5

// DuckDuckGo implements Searcher by scraping the HTML (non-JS) DuckDuckGo
// endpoint. Requests are rate limited to stay polite.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewDuckDuckGo creates a DuckDuckGo searcher. ratePerSecond bounds outgoing
// request frequency; values <= 0 default to one request per second.
func NewDuckDuckGo(ratePerSecond float64) *DuckDuckGo {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &DuckDuckGo{
		baseURL: defaultDuckDuckGoURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

// Search runs one query and parses the result list.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s?q=%s", d.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "hafagpt-retrieval/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return parseResults(doc), nil
}

// parseResults extracts title, link and snippet from the result list markup.
func parseResults(doc *goquery.Document) []Result {
	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		titleSel := s.Find(".result__title a").First()
		title := strings.TrimSpace(titleSel.Text())
		href, _ := titleSel.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())

		if title == "" || href == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     cleanResultURL(href),
			Snippet: snippet,
		})
		return len(results) < maxResults
	})
	return results
}

// cleanResultURL unwraps DuckDuckGo's redirect links (/l/?uddg=<target>).
func cleanResultURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
