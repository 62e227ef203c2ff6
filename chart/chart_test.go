package chart

import (
	"bytes"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxfinder/provider/currencies"
	"github.com/sig-0/fxfinder/storage/types"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func series(values ...string) []*types.HistoricalPoint {
	var (
		points = make([]*types.HistoricalPoint, 0, len(values))
		day    = civil.Date{Year: 2024, Month: time.June, Day: 1}
	)

	for _, v := range values {
		points = append(points, &types.HistoricalPoint{
			Date:  day,
			Value: decimal.RequireFromString(v),
		})

		day = day.AddDays(1)
	}

	return points
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("not enough points", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		assert.ErrorIs(t, Render(&buf, currencies.USD, nil), ErrNotEnoughPoints)
		assert.ErrorIs(t, Render(&buf, currencies.USD, series("32.5")), ErrNotEnoughPoints)
		assert.Zero(t, buf.Len())
	})

	t.Run("png output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, Render(&buf, currencies.USD, series("32.5", "32.61", "32.4", "32.55")))

		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngHeader))
	})

	t.Run("flat series", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, Render(&buf, currencies.JPY, series("0.21", "0.21", "0.21")))

		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngHeader))
	})
}
