package analysis

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

var (
	errMissingSearchKey    = errors.New("missing search API key")
	errMissingSearchEngine = errors.New("missing search engine ID")
)

// CustomSearcher fetches news snippets using the Google Custom Search API
type CustomSearcher struct {
	svc      *customsearch.Service
	engineID string
}

// NewCustomSearcher creates a new Custom Search news searcher.
// Extra client options (endpoint, HTTP client) are passed through
func NewCustomSearcher(
	ctx context.Context,
	apiKey,
	engineID string,
	opts ...option.ClientOption,
) (*CustomSearcher, error) {
	if apiKey == "" {
		return nil, errMissingSearchKey
	}

	if engineID == "" {
		return nil, errMissingSearchEngine
	}

	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create search client: %w", err)
	}

	return &CustomSearcher{
		svc:      svc,
		engineID: engineID,
	}, nil
}

func (c *CustomSearcher) Search(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultNewsCount
	}

	// The API caps a single page at 10 results
	n = min(n, 10)

	resp, err := c.svc.Cse.List().
		Q(query).
		Cx(c.engineID).
		Num(int64(n)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to execute news search: %w", err)
	}

	snippets := make([]string, 0, len(resp.Items))

	for _, item := range resp.Items {
		if item.Snippet == "" {
			continue
		}

		snippets = append(snippets, item.Snippet)
	}

	return snippets, nil
}
