package twd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxfinder/provider"
)

const (
	FindRateSource = "findrate"

	// findRateTitle marks the heading above the bank comparison table
	findRateTitle = "對新台幣匯率各銀行外匯牌告匯率比較"
)

// FindRateProvider scrapes the findrate.tw per-currency bank comparison board
type FindRateProvider struct {
	client  *http.Client
	baseURL string
}

// NewFindRateProvider creates a new instance of the findrate.tw provider
func NewFindRateProvider(baseURL string, timeout time.Duration) *FindRateProvider {
	return &FindRateProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *FindRateProvider) Name() string {
	return FindRateSource
}

func (p *FindRateProvider) FetchRates(ctx context.Context, q *provider.Query) ([]*provider.RawRow, error) {
	url := fmt.Sprintf("%s/%s/", p.baseURL, strings.ToUpper(q.Currency.String()))

	doc, err := fetchDocument(ctx, p.client, url)
	if err != nil {
		return nil, err
	}

	rows := make([]*provider.RawRow, 0, 32)

	// Currencies without a comparison board yield zero rows
	table := findRateTable(doc)
	if table == nil {
		return rows, nil
	}

	table.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := cellTexts(tr)
		if len(cells) == 0 {
			return
		}

		// Columns: bank, cash buy, cash sell, spot buy, spot sell, date
		rows = append(rows, &provider.RawRow{
			Bank:  cells[0],
			Cells: pick(cells, 1, 2, 3, 4, 5),
		})
	})

	return rows, nil
}

// findRateTable locates the first table following the comparison heading
func findRateTable(doc *goquery.Document) *goquery.Selection {
	var (
		found bool
		table *goquery.Selection
	)

	// Find returns matches in document order
	doc.Find("h2, table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "h2" {
			if strings.Contains(s.Text(), findRateTitle) {
				found = true
			}

			return true
		}

		if !found {
			return true
		}

		table = s

		return false
	})

	return table
}
