package server

import "github.com/sig-0/fxfinder/storage/types"

// statusStarted acknowledges a submitted job
const statusStarted = "scraping_started"

type RateDataRequest struct {
	Currency string `json:"currency"`
}

type BestAndNearestRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
	Currency  string   `json:"currency"`
}

type HistoricalChartRequest struct {
	Currency  string `json:"currency"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type AnalysisRequest struct {
	CurrencyCode string `json:"currency_code"`
	CurrencyName string `json:"currency_name"`
}

type StartedResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
