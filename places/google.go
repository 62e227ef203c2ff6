package places

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// DefaultRadius is the search radius used when the request sets none, in meters
const DefaultRadius = 5000

var errMissingAPIKey = errors.New("missing maps API key")

// GoogleSearcher searches places using the Google Places text search API
type GoogleSearcher struct {
	client *maps.Client
}

// NewGoogleSearcher creates a new Google Places searcher.
// Extra client options (base URL, HTTP client) are passed through
func NewGoogleSearcher(apiKey string, opts ...maps.ClientOption) (*GoogleSearcher, error) {
	if apiKey == "" {
		return nil, errMissingAPIKey
	}

	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create maps client: %w", err)
	}

	return &GoogleSearcher{
		client: client,
	}, nil
}

func (g *GoogleSearcher) Search(ctx context.Context, req *Request) ([]*Candidate, error) {
	radius := req.Radius
	if radius == 0 {
		radius = DefaultRadius
	}

	// A location bias is only accepted together with a radius
	resp, err := g.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query: req.Query,
		Location: &maps.LatLng{
			Lat: req.Near.Latitude,
			Lng: req.Near.Longitude,
		},
		Radius:   radius,
		Language: req.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to execute text search: %w", err)
	}

	candidates := make([]*Candidate, 0, len(resp.Results))

	for _, r := range resp.Results {
		c := &Candidate{
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Vicinity:         r.Vicinity,
			PlaceID:          r.PlaceID,
		}

		// Places without reviews report a zero rating
		if r.Rating > 0 {
			rating := float64(r.Rating)
			c.Rating = &rating
		}

		if r.OpeningHours != nil && r.OpeningHours.OpenNow != nil {
			open := *r.OpeningHours.OpenNow
			c.OpenNow = &open
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}
