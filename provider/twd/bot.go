package twd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxfinder/provider"
)

const (
	BOTSource = "bot"

	// botBank is the bank name attached to every history row
	botBank = "Bank of Taiwan"
)

var errMissingTable = errors.New("missing rate history table")

// BOTHistoryProvider scrapes the monthly Bank of Taiwan rate history pages
type BOTHistoryProvider struct {
	client  *http.Client
	baseURL string
}

// NewBOTHistoryProvider creates a new instance of the Bank of Taiwan history provider
func NewBOTHistoryProvider(baseURL string, timeout time.Duration) *BOTHistoryProvider {
	return &BOTHistoryProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *BOTHistoryProvider) Name() string {
	return BOTSource
}

// FetchRates fetches a single month of history.
// If no month is given, the current month is fetched
func (p *BOTHistoryProvider) FetchRates(ctx context.Context, q *provider.Query) ([]*provider.RawRow, error) {
	month := civil.DateOf(time.Now().In(taipeiLocation()))
	if q.Month != nil {
		month = *q.Month
	}

	url := fmt.Sprintf(
		"%s/xrt/quote/%04d-%02d/%s",
		p.baseURL,
		month.Year,
		int(month.Month),
		strings.ToUpper(q.Currency.String()),
	)

	doc, err := fetchDocument(ctx, p.client, url)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.table-striped").First()
	if table.Length() == 0 || table.Find("tbody").Length() == 0 {
		return nil, fmt.Errorf("%w for %s %s", errMissingTable, q.Currency, month)
	}

	rows := make([]*provider.RawRow, 0, 31)

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if len(cells) == 0 {
			return
		}

		// Columns: date, currency, cash buy, cash sell, spot buy, spot sell
		rows = append(rows, &provider.RawRow{
			Bank:  botBank,
			Cells: pick(cells, 2, 3, 4, 5, 0),
		})
	})

	return rows, nil
}

func taipeiLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err == nil {
		return loc
	}

	return time.FixedZone("CST", 8*60*60)
}
