package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/sig-0/fxfinder/storage/types"
)

const (
	// DefaultNewsCount is the number of news snippets fed into the prompt
	DefaultNewsCount = 5

	// HistoryDays is the length of the rate history window fed into the prompt
	HistoryDays = 7

	noHistory = "No historical rate data was found for the past week."
	noNews    = "No related news was found."
)

// Forecaster generates a narrative market forecast from a prompt
type Forecaster interface {
	Forecast(ctx context.Context, prompt string) (string, error)
}

// NewsSearcher fetches recent news snippets matching a query
type NewsSearcher interface {
	Search(ctx context.Context, query string, n int) ([]string, error)
}

// NewsQuery returns the news search query for the currency
func NewsQuery(currencyName string) string {
	return fmt.Sprintf("%s exchange rate trend past week international financial news", currencyName)
}

// FormatHistory renders the series as one "date: cash sell value" line per point
func FormatHistory(points []*types.HistoricalPoint) string {
	if len(points) == 0 {
		return noHistory
	}

	lines := make([]string, 0, len(points))

	for _, p := range points {
		lines = append(lines, fmt.Sprintf("%s: cash sell %s", p.Date, p.Value))
	}

	return strings.Join(lines, "\n")
}

// FormatNews renders the snippets as a bulleted list
func FormatNews(snippets []string) string {
	lines := make([]string, 0, len(snippets))

	for _, s := range snippets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		lines = append(lines, "- "+s)
	}

	if len(lines) == 0 {
		return noNews
	}

	return strings.Join(lines, "\n")
}

// BuildPrompt builds the forecast prompt from the rate history and news
func BuildPrompt(
	code types.Currency,
	name string,
	history []*types.HistoricalPoint,
	snippets []string,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a senior foreign exchange market analyst covering %s (%s).\n", name, code)
	fmt.Fprintf(
		&b,
		"Based on the past week of TWD to %s cash rates and the related international financial news below, complete two tasks.\n\n",
		code,
	)

	b.WriteString("---\n[Data 1: past week of exchange rates]\n")
	b.WriteString(FormatHistory(history))
	b.WriteString("\n---\n[Data 2: related international financial news]\n")
	b.WriteString(FormatNews(snippets))
	b.WriteString("\n---\n\n[Tasks]\n")

	fmt.Fprintf(
		&b,
		"1. Trend summary: summarize the overall %s trend over the past week "+
			"(appreciating, depreciating or ranging) and the key drivers behind it, using the news.\n",
		code,
	)
	fmt.Fprintf(
		&b,
		"2. One-week outlook: give a short forecast of the %s trend for the coming week "+
			"and list the reasons for your judgement.\n\n",
		code,
	)
	b.WriteString("Reply in Traditional Chinese, as a clear and professional bulleted list.\n")

	return b.String()
}
