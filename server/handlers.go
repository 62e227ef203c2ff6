package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/sig-0/fxfinder/chart"
	"github.com/sig-0/fxfinder/jobs"
	"github.com/sig-0/fxfinder/provider/currencies"
	"github.com/sig-0/fxfinder/storage"
	"github.com/sig-0/fxfinder/storage/types"
)

const (
	// maxBodySize caps the size of a job request body
	maxBodySize = 1 << 16

	// maxRangeDays caps the span of a historical series
	maxRangeDays = 3 * 366
)

var (
	errInvalidBody        = errors.New("invalid request body")
	errMissingCurrency    = errors.New("missing currency")
	errMissingCoordinates = errors.New("missing lat or lng")
	errInvalidCoordinates = errors.New("invalid lat or lng")
	errMissingDates       = errors.New("missing start_date or end_date")
	errRangeTooLong       = fmt.Errorf("date range exceeds %d days", maxRangeDays)
	errMissingName        = errors.New("missing currency_name")
	errInvalidJobID       = errors.New("invalid job id")
	errJobNotFound        = errors.New("job not found")
	errNoChart            = errors.New("job has no chart data")

	errUnableToStartJob  = errors.New("unable to start job")
	errUnableToFetchJob  = errors.New("unable to fetch job status")
	errUnableToRenderJob = errors.New("unable to render chart")
)

func (s *Server) GetRateData(w http.ResponseWriter, r *http.Request) {
	var req RateDataRequest

	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	currency, err := parseCurrency(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	s.submit(w, r, types.JobKindRates, currency, s.tasks.FetchRates(currency))
}

func (s *Server) FindBestAndNearest(w http.ResponseWriter, r *http.Request) {
	var req BestAndNearestRequest

	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	currency, err := parseCurrency(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	near, err := parseCoordinate(req.Latitude, req.Longitude)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	s.submit(w, r, types.JobKindBestOffer, currency, s.tasks.BestAndNearest(currency, near))
}

func (s *Server) GetHistoricalChartData(w http.ResponseWriter, r *http.Request) {
	var req HistoricalChartRequest

	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	currency, err := parseCurrency(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// An inverted range is reported through the job status
	s.submit(w, r, types.JobKindHistorical, currency, s.tasks.HistoricalChart(currency, start, end))
}

func (s *Server) GetGeminiAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest

	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	currency, err := parseCurrency(req.CurrencyCode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	name := strings.TrimSpace(req.CurrencyName)
	if name == "" {
		writeError(w, http.StatusBadRequest, errMissingName)

		return
	}

	s.submit(w, r, types.JobKindAnalysis, currency, s.tasks.MarketAnalysis(currency, name))
}

// Status returns the status of the most recently started job
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	st, err := s.jobs.Latest(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch latest job status",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchJob)

		return
	}

	writeJSON(w, http.StatusOK, st)
}

// Job returns the status of the given job
func (s *Server) Job(w http.ResponseWriter, r *http.Request) {
	st, ok := s.jobStatus(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// JobChart renders the series of a completed historical job as a PNG
func (s *Server) JobChart(w http.ResponseWriter, r *http.Request) {
	st, ok := s.jobStatus(w, r)
	if !ok {
		return
	}

	points, isSeries := st.Results.([]*types.HistoricalPoint)
	if st.Kind != types.JobKindHistorical || st.Stage != types.StageComplete || !isSeries {
		writeError(w, http.StatusConflict, errNoChart)

		return
	}

	var buf bytes.Buffer

	if err := chart.Render(&buf, st.Currency, points); err != nil {
		if errors.Is(err, chart.ErrNotEnoughPoints) {
			writeError(w, http.StatusConflict, err)

			return
		}

		s.logger.Error(
			"unable to render chart",
			"id", st.ID.String(),
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToRenderJob)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(buf.Bytes()) //nolint:errcheck // Fine to ignore
}

func (s *Server) Currencies(w http.ResponseWriter, _ *http.Request) {
	resp := &CurrenciesResponse{
		Results: currencies.Supported,
	}

	writeJSON(w, http.StatusOK, resp)
}

// submit starts the job and acknowledges it
func (s *Server) submit(
	w http.ResponseWriter,
	r *http.Request,
	kind types.JobKind,
	currency types.Currency,
	task jobs.Task,
) {
	id, err := s.jobs.Submit(r.Context(), kind, currency, task)
	if err != nil {
		s.logger.Error(
			"unable to start job",
			"kind", kind,
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToStartJob)

		return
	}

	resp := &StartedResponse{
		Status: statusStarted,
		JobID:  id.String(),
	}

	writeJSON(w, http.StatusOK, resp)
}

// jobStatus fetches the status of the job in the route,
// writing the error response if it can't
func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) (*types.JobStatus, bool) {
	id, err := xid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJobID)

		return nil, false
	}

	st, err := s.jobs.Status(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errJobNotFound)

		return nil, false
	}

	if err != nil {
		s.logger.Debug(
			"unable to fetch job status",
			"id", id.String(),
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchJob)

		return nil, false
	}

	return st, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	return nil
}

func parseCurrency(v string) (types.Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if s == "" {
		return "", errMissingCurrency
	}

	if len(s) != 3 {
		return "", errors.New("invalid currency (must be 3 letters)")
	}

	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", errors.New("invalid currency (must be A-Z)")
		}
	}

	c := types.Currency(s)
	if !currencies.IsSupported(c) {
		return "", fmt.Errorf("unsupported currency %s", c)
	}

	return c, nil
}

func parseCoordinate(lat, lng *float64) (types.Coordinate, error) {
	if lat == nil || lng == nil {
		return types.Coordinate{}, errMissingCoordinates
	}

	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return types.Coordinate{}, errInvalidCoordinates
	}

	return types.Coordinate{
		Latitude:  *lat,
		Longitude: *lng,
	}, nil
}

func parseDateRange(startRaw, endRaw string) (civil.Date, civil.Date, error) {
	startRaw, endRaw = strings.TrimSpace(startRaw), strings.TrimSpace(endRaw)
	if startRaw == "" || endRaw == "" {
		return civil.Date{}, civil.Date{}, errMissingDates
	}

	start, err := civil.ParseDate(startRaw)
	if err != nil {
		return civil.Date{}, civil.Date{}, errors.New("invalid start_date (must be YYYY-MM-DD)")
	}

	end, err := civil.ParseDate(endRaw)
	if err != nil {
		return civil.Date{}, civil.Date{}, errors.New("invalid end_date (must be YYYY-MM-DD)")
	}

	// Inverted ranges are left to the job, which reports them
	if end.DaysSince(start) > maxRangeDays {
		return civil.Date{}, civil.Date{}, errRangeTooLong
	}

	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Status:  "error",
		Message: err.Error(),
	}

	writeJSON(w, status, resp)
}
