package chart

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	fxchart "github.com/sig-0/fxfinder/chart"
	"github.com/sig-0/fxfinder/cmd/env"
	"github.com/sig-0/fxfinder/provider/currencies"
	"github.com/sig-0/fxfinder/provider/twd"
	"github.com/sig-0/fxfinder/rates"
	"github.com/sig-0/fxfinder/storage/types"
)

var errMissingDates = errors.New("both -start and -end are required")

// chartCfg wraps the chart configuration
type chartCfg struct {
	currency string
	start    string
	end      string
	output   string
	baseURL  string
}

// NewChartCmd creates the chart command
func NewChartCmd() *ffcli.Command {
	cfg := &chartCfg{}

	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "chart",
		ShortUsage: "chart -start YYYY-MM-DD -end YYYY-MM-DD [flags]",
		LongHelp:   "Renders the Bank of Taiwan cash sell history of a currency as a PNG chart",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *chartCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.currency,
		"currency",
		currencies.USD.String(),
		"the currency quoted against TWD",
	)

	fs.StringVar(
		&c.start,
		"start",
		"",
		"the first day of the series (YYYY-MM-DD)",
	)

	fs.StringVar(
		&c.end,
		"end",
		"",
		"the last day of the series (YYYY-MM-DD)",
	)

	fs.StringVar(
		&c.output,
		"out",
		"chart.png",
		"the path of the rendered PNG",
	)

	fs.StringVar(
		&c.baseURL,
		"source-url",
		"https://rate.bot.com.tw",
		"the Bank of Taiwan rate site URL",
	)
}

func (c *chartCfg) exec(ctx context.Context, _ []string) error {
	if c.start == "" || c.end == "" {
		return errMissingDates
	}

	start, err := civil.ParseDate(c.start)
	if err != nil {
		return fmt.Errorf("invalid start date, %w", err)
	}

	end, err := civil.ParseDate(c.end)
	if err != nil {
		return fmt.Errorf("invalid end date, %w", err)
	}

	currency := types.Currency(strings.ToUpper(strings.TrimSpace(c.currency)))
	if !currencies.IsSupported(currency) {
		return fmt.Errorf("unsupported currency %s", currency)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	assembler := rates.NewAssembler(
		twd.NewBOTHistoryProvider(c.baseURL, time.Second*30),
		logger,
	)

	points, err := assembler.Assemble(ctx, currency, start, end)
	if err != nil {
		return fmt.Errorf("unable to assemble history, %w", err)
	}

	if err := writeChart(c.output, currency, points); err != nil {
		return err
	}

	logger.Info(
		"rendered chart",
		"currency", currency,
		"points", len(points),
		"path", c.output,
	)

	return nil
}

// writeChart renders the chart in memory, and only creates the
// output file once rendering succeeded
func writeChart(path string, currency types.Currency, points []*types.HistoricalPoint) error {
	var buf bytes.Buffer

	if err := fxchart.Render(&buf, currency, points); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // Charts are meant to be shared
		return fmt.Errorf("unable to write chart file, %w", err)
	}

	return nil
}
