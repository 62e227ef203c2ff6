package serve

import (
	"context"
	"log/slog"
	"os"

	"github.com/sig-0/fxfinder/analysis"
	"github.com/sig-0/fxfinder/cmd/env"
	"github.com/sig-0/fxfinder/places"
	"github.com/sig-0/fxfinder/rates"
)

// credentials are the external service secrets, read once at start
type credentials struct {
	mapsAPIKey     string
	searchAPIKey   string
	searchEngineID string
	geminiAPIKey   string
	geminiModel    string
}

func readCredentials() credentials {
	c := credentials{
		mapsAPIKey:     os.Getenv(env.Name(env.MapsAPIKeySuffix)),
		searchAPIKey:   os.Getenv(env.Name(env.SearchAPIKeySuffix)),
		searchEngineID: os.Getenv(env.Name(env.SearchEngineIDSuffix)),
		geminiAPIKey:   os.Getenv(env.Name(env.GeminiAPIKeySuffix)),
		geminiModel:    os.Getenv(env.Name(env.GeminiModelSuffix)),
	}

	// The Google API key usually covers both Maps and Custom Search
	if c.searchAPIKey == "" {
		c.searchAPIKey = c.mapsAPIKey
	}

	return c
}

// collaborators are the external services the jobs call out to.
// Nil members are not configured
type collaborators struct {
	places     places.Searcher
	forecaster analysis.Forecaster
	news       analysis.NewsSearcher
	logger     *slog.Logger
}

func newCollaborators(ctx context.Context, creds credentials, logger *slog.Logger) *collaborators {
	c := &collaborators{
		logger: logger,
	}

	if searcher, err := places.NewGoogleSearcher(creds.mapsAPIKey); err != nil {
		logger.Warn(
			"branch search disabled",
			"env", env.Name(env.MapsAPIKeySuffix),
			"err", err,
		)
	} else {
		c.places = searcher
	}

	if forecaster, err := analysis.NewGeminiForecaster(
		ctx,
		creds.geminiAPIKey,
		analysis.WithModel(creds.geminiModel),
	); err != nil {
		logger.Warn(
			"market analysis disabled",
			"env", env.Name(env.GeminiAPIKeySuffix),
			"err", err,
		)
	} else {
		c.forecaster = forecaster
	}

	if news, err := analysis.NewCustomSearcher(ctx, creds.searchAPIKey, creds.searchEngineID); err != nil {
		logger.Warn(
			"news search disabled",
			"env", env.Name(env.SearchEngineIDSuffix),
			"err", err,
		)
	} else {
		c.news = news
	}

	return c
}

// pairer returns the branch pairer, if branch search is configured
func (c *collaborators) pairer(language string, radius int) *rates.Pairer {
	if c.places == nil {
		return nil
	}

	return rates.NewPairer(
		c.places,
		rates.WithPairerLogger(c.logger),
		rates.WithLanguage(language),
		rates.WithRadius(uint(radius)), //nolint:gosec // Validated as positive
	)
}
