package twd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// userAgent is sent with every page request, the sources reject bare clients
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// fetchDocument fetches the page at the given URL and constructs a query doc
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	// Execute the request
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	// Construct document for parsing
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	return doc, nil
}

// cellTexts returns the trimmed text of every td in the row
func cellTexts(tr *goquery.Selection) []string {
	tds := tr.Find("td")
	out := make([]string, 0, tds.Length())

	tds.Each(func(_ int, td *goquery.Selection) {
		out = append(out, strings.TrimSpace(td.Text()))
	})

	return out
}

// pick returns the cells at the given positions, in order.
// If any position is out of range, the row is malformed and nil is returned
func pick(cells []string, positions ...int) []string {
	out := make([]string, 0, len(positions))

	for _, p := range positions {
		if p >= len(cells) {
			return nil
		}

		out = append(out, cells[p])
	}

	return out
}
