package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="result">
  <h2 class="result__title"><a href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fguampedia.com%2Flatte-stones%2F">Latte Stones - Guampedia</a></h2>
  <div class="result__snippet">Latte stones are pillars of Marianas architecture.</div>
</div>
<div class="result">
  <h2 class="result__title"><a href="https://example.com/weather">Guam Weather</a></h2>
  <div class="result__snippet">Current conditions in Hagåtña.</div>
</div>
<div class="result">
  <h2 class="result__title"><a href="">Broken result</a></h2>
</div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "guam weather", r.URL.Query().Get("q"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprintf(w, "%s", resultsPage)
	}))
	defer server.Close()

	d := NewDuckDuckGo(100)
	d.baseURL = server.URL

	results, err := d.Search(context.Background(), "guam weather")
	require.NoError(t, err)
	require.Len(t, results, 2, "results without a link must be dropped")

	require.Equal(t, "Latte Stones - Guampedia", results[0].Title)
	require.Equal(t, "https://guampedia.com/latte-stones/", results[0].URL, "redirect links must be unwrapped")
	require.Equal(t, "Latte stones are pillars of Marianas architecture.", results[0].Snippet)

	require.Equal(t, "https://example.com/weather", results[1].URL)
}

func TestDuckDuckGoSearchCapsResults(t *testing.T) {
	var page string
	for i := 0; i < 10; i++ {
		page += fmt.Sprintf(`<div class="result">
  <h2 class="result__title"><a href="https://example.com/%d">Result %d</a></h2>
  <div class="result__snippet">snippet</div>
</div>`, i, i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>"+page+"</body></html>")
	}))
	defer server.Close()

	d := NewDuckDuckGo(100)
	d.baseURL = server.URL

	results, err := d.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, results, maxResults)
}

func TestDuckDuckGoSearchEmptyQuery(t *testing.T) {
	d := NewDuckDuckGo(100)
	_, err := d.Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestDuckDuckGoSearchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := NewDuckDuckGo(100)
	d.baseURL = server.URL

	_, err := d.Search(context.Background(), "guam weather")
	require.Error(t, err)
}
