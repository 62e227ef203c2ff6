package places

import (
	"context"

	"github.com/sig-0/fxfinder/storage/types"
)

// Request is a single text-based nearby place query
type Request struct {
	Query    string
	Language string
	Near     types.Coordinate

	// Radius biases the results to a circle around Near, in meters
	Radius uint
}

// Candidate is a single place search result.
// Nil Rating and OpenNow mean the service did not report them
type Candidate struct {
	Rating           *float64
	OpenNow          *bool
	Name             string
	FormattedAddress string
	Vicinity         string
	PlaceID          string
}

// Searcher finds places matching a text query near a coordinate.
// Candidates are ordered by relevance, best first
type Searcher interface {
	Search(context.Context, *Request) ([]*Candidate, error)
}
