package rates

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sig-0/fxfinder/provider"
	"github.com/sig-0/fxfinder/storage/types"
)

// unavailable are the placeholders sources publish for missing prices
var unavailable = map[string]struct{}{
	"":   {},
	"-":  {},
	"--": {},
}

// Normalize converts a single raw row into a typed quote.
// Missing prices are marked invalid; an unparsable price fails the row
func Normalize(row *provider.RawRow, currency types.Currency) (*types.Quote, error) {
	if row == nil || len(row.Cells) < provider.RowWidth {
		return nil, ErrMalformedRow
	}

	bank := strings.TrimSpace(row.Bank)
	if bank == "" {
		return nil, fmt.Errorf("%w: missing bank name", ErrMalformedRow)
	}

	q := &types.Quote{
		Bank:     bank,
		Currency: types.Currency(strings.ToUpper(strings.TrimSpace(currency.String()))),
		Date:     strings.TrimSpace(row.Cells[provider.CellDate]),
	}

	fields := []struct {
		dst  *decimal.NullDecimal
		name string
		cell int
	}{
		{&q.CashBuy, "cash buy", provider.CellCashBuy},
		{&q.CashSell, "cash sell", provider.CellCashSell},
		{&q.SpotBuy, "spot buy", provider.CellSpotBuy},
		{&q.SpotSell, "spot sell", provider.CellSpotSell},
	}

	for _, f := range fields {
		price, err := parsePrice(row.Cells[f.cell])
		if err != nil {
			return nil, fmt.Errorf("%s for %s: %w", f.name, bank, err)
		}

		*f.dst = price
	}

	return q, nil
}

// NormalizeAll normalizes every row, dropping (and logging) the ones that fail
func NormalizeAll(
	rows []*provider.RawRow,
	currency types.Currency,
	logger *slog.Logger,
) []*types.Quote {
	quotes := make([]*types.Quote, 0, len(rows))

	for i, row := range rows {
		q, err := Normalize(row, currency)
		if err != nil {
			logger.Warn(
				"dropping rate row",
				"index", i,
				"currency", currency,
				"err", err,
			)

			continue
		}

		quotes = append(quotes, q)
	}

	return quotes
}

// parsePrice parses a scraped price cell
func parsePrice(cell string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(cell)
	if _, ok := unavailable[s]; ok {
		return decimal.NullDecimal{}, nil
	}

	// Some boards group thousands: "1,234.56" -> "1234.56"
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: price %q", ErrParse, cell)
	}

	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: negative price %q", ErrParse, cell)
	}

	return decimal.NewNullDecimal(d), nil
}
