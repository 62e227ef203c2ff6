package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fxchart "github.com/sig-0/fxfinder/chart"
	"github.com/sig-0/fxfinder/provider/currencies"
	"github.com/sig-0/fxfinder/storage/types"
)

func TestChart_WriteChart(t *testing.T) {
	t.Parallel()

	t.Run("no file on render failure", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chart.png")

		points := []*types.HistoricalPoint{
			{
				Date:  civil.Date{Year: 2024, Month: time.June, Day: 1},
				Value: decimal.RequireFromString("32.5"),
			},
		}

		assert.ErrorIs(t, writeChart(path, currencies.USD, points), fxchart.ErrNotEnoughPoints)

		_, err := os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("rendered file", func(t *testing.T) {
		t.Parallel()

		var (
			path = filepath.Join(t.TempDir(), "chart.png")
			day  = civil.Date{Year: 2024, Month: time.June, Day: 1}
		)

		points := []*types.HistoricalPoint{
			{Date: day, Value: decimal.RequireFromString("32.5")},
			{Date: day.AddDays(1), Value: decimal.RequireFromString("32.6")},
		}

		require.NoError(t, writeChart(path, currencies.USD, points))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	})
}
