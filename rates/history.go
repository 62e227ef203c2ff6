package rates

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/sig-0/fxfinder/provider"
	"github.com/sig-0/fxfinder/storage/types"
)

// maxPreallocPoints bounds the up-front series allocation
const maxPreallocPoints = 4096

// Assembler merges monthly history pages into a single daily series
type Assembler struct {
	source provider.Source
	logger *slog.Logger
}

// NewAssembler creates a new history assembler on top of the monthly source
func NewAssembler(source provider.Source, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Assembler{
		source: source,
		logger: logger,
	}
}

// Assemble returns the cash-sell series for the currency in [start, end],
// sorted by date. Months that fail to fetch are skipped, so the series
// is best effort and may be empty
func (a *Assembler) Assemble(
	ctx context.Context,
	currency types.Currency,
	start, end civil.Date,
) ([]*types.HistoricalPoint, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}

	var (
		months = monthsBetween(start, end)
		points = make([]*types.HistoricalPoint, 0, min(len(months)*31, maxPreallocPoints))
	)

	for _, month := range months {
		rows, err := a.source.FetchRates(ctx, &provider.Query{
			Currency: currency,
			Month:    &month,
		})
		if err != nil {
			a.logger.Error(
				"unable to fetch history month",
				"source", a.source.Name(),
				"currency", currency,
				"month", month.String()[:7],
				"err", err,
			)

			continue
		}

		for _, q := range NormalizeAll(rows, currency, a.logger) {
			date, err := parseQuoteDate(q.Date)
			if err != nil {
				a.logger.Warn(
					"dropping history row",
					"bank", q.Bank,
					"date", q.Date,
					"err", err,
				)

				continue
			}

			if date.Before(start) || date.After(end) {
				continue
			}

			if !q.CashSell.Valid {
				continue
			}

			points = append(points, &types.HistoricalPoint{
				Date:  date,
				Value: q.CashSell.Decimal,
			})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return dedupeDates(points), nil
}

// monthsBetween returns the first day of every month touching [start, end]
func monthsBetween(start, end civil.Date) []civil.Date {
	var (
		months  []civil.Date
		current = civil.Date{Year: start.Year, Month: start.Month, Day: 1}
	)

	for !current.After(end) {
		months = append(months, current)

		current = civil.DateOf(current.In(time.UTC).AddDate(0, 1, 0))
	}

	return months
}

// dedupeDates drops repeated dates from a sorted series, keeping the first point
func dedupeDates(points []*types.HistoricalPoint) []*types.HistoricalPoint {
	out := points[:0]

	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Date == p.Date {
			continue
		}

		out = append(out, p)
	}

	return out
}

// parseQuoteDate parses the leading date of a scraped timestamp.
// Accepted forms: "2024/06/12", "2024-06-12", "2024/06/12 16:01"
func parseQuoteDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}

	d, err := civil.ParseDate(strings.ReplaceAll(s, "/", "-"))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: date %q", ErrParse, s)
	}

	return d, nil
}
