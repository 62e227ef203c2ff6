package serve

import (
	"time"

	"github.com/sig-0/fxfinder/provider"
	"github.com/sig-0/fxfinder/provider/twd"
)

// defaultSources returns the registry of the default rate sources
func defaultSources() (*provider.Registry, error) {
	var (
		// Per-currency bank comparison board
		findRateProvider = twd.NewFindRateProvider(
			"https://www.findrate.tw",
			time.Second*30,
		)

		// Bank of Taiwan monthly history
		botProvider = twd.NewBOTHistoryProvider(
			"https://rate.bot.com.tw",
			time.Second*30,
		)

		registry = provider.NewRegistry()
	)

	for _, s := range []provider.Source{
		findRateProvider,
		botProvider,
	} {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
