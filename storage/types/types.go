package types

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"
)

type Currency string

func (c Currency) String() string {
	return string(c)
}

// Quote is a single bank's normalized exchange rate record.
// A price with Valid == false is unavailable at the source
type Quote struct {
	Bank     string              `json:"bank"`
	Currency Currency            `json:"currency"`
	Date     string              `json:"date"`
	CashBuy  decimal.NullDecimal `json:"cash_buy"`
	CashSell decimal.NullDecimal `json:"cash_sell"`
	SpotBuy  decimal.NullDecimal `json:"spot_buy"`
	SpotSell decimal.NullDecimal `json:"spot_sell"`
}

// HistoricalPoint is a single day's cash-sell value
type HistoricalPoint struct {
	Date  civil.Date      `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Coordinate is a WGS84 location
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// BranchInfo describes the nearest branch of a bank.
// Nil Rating and IsOpen mean the place service did not report them
type BranchInfo struct {
	Rating  *float64 `json:"rating"`
	IsOpen  *bool    `json:"is_open"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	MapURL  string   `json:"map_url"`
}

type RankedOffer struct {
	BestRateInfo      *Quote      `json:"best_rate_info"`
	NearestBranchInfo *BranchInfo `json:"nearest_branch_info"`
	Rank              int         `json:"rank"`
}

type Stage string

const (
	StageIdle            Stage = "idle"
	StageScraping        Stage = "scraping"
	StageFindingLocation Stage = "finding_location"
	StageComplete        Stage = "complete"
	StageError           Stage = "error"
)

func (s Stage) String() string {
	return string(s)
}

// Done returns true if the stage is terminal
func (s Stage) Done() bool {
	return s == StageComplete || s == StageError
}

type JobKind string

const (
	JobKindRates      JobKind = "rates"
	JobKindBestOffer  JobKind = "best_offer"
	JobKindHistorical JobKind = "historical"
	JobKindAnalysis   JobKind = "analysis"
)

func (k JobKind) String() string {
	return string(k)
}

// JobStatus is the polled state of a single background job
type JobStatus struct {
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Results   any       `json:"results"`
	Kind      JobKind   `json:"kind"`
	Currency  Currency  `json:"currency,omitempty"`
	Stage     Stage     `json:"stage"`
	Message   string    `json:"message"`
	ID        xid.ID    `json:"id"`
}

// IdleStatus is reported when no job was submitted yet
func IdleStatus() *JobStatus {
	return &JobStatus{
		Stage:   StageIdle,
		Message: "idle",
	}
}
