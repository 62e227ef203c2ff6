package rates

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/sig-0/fxfinder/places"
	"github.com/sig-0/fxfinder/storage/types"
)

const (
	// DefaultLanguage is the result language requested from the place search
	DefaultLanguage = "zh-TW"

	addressNotProvided = "address not provided"
	mapSearchURL       = "https://www.google.com/maps/search/"
)

// ProgressFn is called before each offer is paired
type ProgressFn func(index, total int, bank string)

// Pairer attaches the nearest branch to ranked offers
type Pairer struct {
	searcher places.Searcher
	logger   *slog.Logger
	language string
	radius   uint
}

type PairerOption func(p *Pairer)

// WithPairerLogger specifies the logger for the pairer
func WithPairerLogger(l *slog.Logger) PairerOption {
	return func(p *Pairer) {
		p.logger = l
	}
}

// WithLanguage specifies the place search result language
func WithLanguage(language string) PairerOption {
	return func(p *Pairer) {
		p.language = language
	}
}

// WithRadius specifies the branch search radius around the coordinate, in meters.
// Zero leaves the choice to the searcher
func WithRadius(meters uint) PairerOption {
	return func(p *Pairer) {
		p.radius = meters
	}
}

// NewPairer creates a new branch pairer on top of the place searcher
func NewPairer(searcher places.Searcher, opts ...PairerOption) *Pairer {
	p := &Pairer{
		searcher: searcher,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		language: DefaultLanguage,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Pair queries the nearest branch for every offer, in rank order.
// A failed or empty search leaves that offer without a branch
// and does not stop the remaining offers
func (p *Pairer) Pair(
	ctx context.Context,
	offers []*types.RankedOffer,
	near types.Coordinate,
	progress ProgressFn,
) {
	for i, offer := range offers {
		bank := offer.BestRateInfo.Bank

		if progress != nil {
			progress(i, len(offers), bank)
		}

		candidates, err := p.searcher.Search(ctx, &places.Request{
			Query:    bank,
			Near:     near,
			Language: p.language,
			Radius:   p.radius,
		})
		if err != nil {
			p.logger.Error(
				"unable to search nearest branch",
				"bank", bank,
				"err", NewCollaboratorError("place search", err),
			)

			offer.NearestBranchInfo = nil

			continue
		}

		if len(candidates) == 0 {
			p.logger.Info(
				"no branch found",
				"bank", bank,
			)

			offer.NearestBranchInfo = nil

			continue
		}

		offer.NearestBranchInfo = branchInfo(candidates[0])
	}
}

// branchInfo builds the branch details from a place candidate
func branchInfo(c *places.Candidate) *types.BranchInfo {
	address := c.FormattedAddress
	if address == "" {
		address = c.Vicinity
	}

	if address == "" {
		address = addressNotProvided
	}

	return &types.BranchInfo{
		Name:    c.Name,
		Address: address,
		Rating:  c.Rating,
		IsOpen:  c.OpenNow,
		MapURL:  mapURL(c.Name, c.PlaceID),
	}
}

// mapURL returns the maps search link for the place
func mapURL(name, placeID string) string {
	v := url.Values{}
	v.Set("api", "1")
	v.Set("query", name)
	v.Set("query_place_id", placeID)

	return fmt.Sprintf("%s?%s", mapSearchURL, v.Encode())
}
