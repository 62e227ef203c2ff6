package currencies

import "github.com/sig-0/fxfinder/storage/types"

var (
	TWD types.Currency = "TWD"
	USD types.Currency = "USD"
	JPY types.Currency = "JPY"
	EUR types.Currency = "EUR"
	CNY types.Currency = "CNY"
	HKD types.Currency = "HKD"
	GBP types.Currency = "GBP"
	AUD types.Currency = "AUD"
	KRW types.Currency = "KRW"
	SGD types.Currency = "SGD"
	THB types.Currency = "THB"
	CAD types.Currency = "CAD"
)

// Supported lists the foreign currencies quoted against TWD by the sources
var Supported = []types.Currency{
	USD,
	JPY,
	EUR,
	CNY,
	HKD,
	GBP,
	AUD,
	KRW,
	SGD,
	THB,
	CAD,
}

// IsSupported returns true if the currency is quoted by the sources
func IsSupported(c types.Currency) bool {
	for _, s := range Supported {
		if s == c {
			return true
		}
	}

	return false
}
