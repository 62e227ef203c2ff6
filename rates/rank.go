package rates

import (
	"sort"

	"github.com/sig-0/fxfinder/storage/types"
)

// DefaultTopN is the number of offers ranked when no count is given
const DefaultTopN = 3

// Rank returns the n cheapest offers by cash sell price, cheapest first.
// Quotes without a cash sell price are skipped, and equal prices
// keep their input order
func Rank(quotes []*types.Quote, n int) ([]*types.RankedOffer, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	valid := make([]*types.Quote, 0, len(quotes))

	for _, q := range quotes {
		if q == nil || !q.CashSell.Valid {
			continue
		}

		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, ErrNoValidOffers
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].CashSell.Decimal.LessThan(valid[j].CashSell.Decimal)
	})

	if len(valid) > n {
		valid = valid[:n]
	}

	offers := make([]*types.RankedOffer, 0, len(valid))

	for i, q := range valid {
		offers = append(offers, &types.RankedOffer{
			Rank:         i + 1,
			BestRateInfo: q,
		})
	}

	return offers, nil
}
