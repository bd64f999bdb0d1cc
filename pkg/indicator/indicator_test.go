package indicator

import (
	"math"
	"testing"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candlesFromCloses(closes ...float64) []core.Candle {
	out := make([]core.Candle, len(closes))
	for i, c := range closes {
		out[i] = core.Candle{
			Time:   int64(i+1) * 60,
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		}
	}
	return out
}

func TestMetric_Series(t *testing.T) {
	m := Metric{Points: []Point{
		{Time: 60, Value: 1.5},
		{Time: 120, Value: 2.5},
		{Time: 180, Value: 3.5},
	}}

	s := m.Series()
	require.Equal(t, 3, s.Length())
	assert.Equal(t, 3.5, s.Last(0))
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, s.Values())

	assert.Empty(t, Metric{}.Series())
}

func TestSMA_ConstantSeries(t *testing.T) {
	candles := candlesFromCloses(5, 5, 5, 5, 5, 5)

	points := SMA(candles, 3)
	require.Len(t, points, 4)
	for _, p := range points {
		assert.InDelta(t, 5.0, p.Value, 1e-12)
	}
}

func TestSMA_Alignment(t *testing.T) {
	candles := candlesFromCloses(1, 2, 3, 4, 5)

	points := SMA(candles, 3)
	require.Len(t, points, 3)

	// First point sits on the bar that completes the window.
	assert.Equal(t, candles[2].Time, points[0].Time)
	assert.InDelta(t, 2.0, points[0].Value, 1e-12)
	assert.InDelta(t, 3.0, points[1].Value, 1e-12)
	assert.InDelta(t, 4.0, points[2].Value, 1e-12)
}

func TestSMA_InsufficientInput(t *testing.T) {
	assert.Empty(t, SMA(candlesFromCloses(1, 2), 3))
	assert.Empty(t, SMA(nil, 3))
	assert.Empty(t, SMA(candlesFromCloses(1, 2, 3), 0))
}

func TestEMA_FullLengthAndSeed(t *testing.T) {
	candles := candlesFromCloses(10, 11, 12, 13)

	points := EMA(candles, 3)
	require.Len(t, points, len(candles))

	// Seeded with the first close, then the standard recurrence.
	assert.InDelta(t, 10.0, points[0].Value, 1e-12)
	multiplier := 2.0 / 4.0
	expected := 10.0
	for i := 1; i < len(candles); i++ {
		expected = (candles[i].Close-expected)*multiplier + expected
		assert.InDelta(t, expected, points[i].Value, 1e-12)
	}
}

func TestEMA_ConvergesToConstant(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 42
	}
	closes[0] = 100

	points := EMA(candlesFromCloses(closes...), 10)
	assert.InDelta(t, 42.0, points[len(points)-1].Value, 1e-6)
}

func TestRSI_Bounds(t *testing.T) {
	candles := candlesFromCloses(44, 47, 45, 50, 43, 48, 46, 52, 41, 49, 47, 51, 45, 50, 48, 53)

	points := RSI(candles, 14)
	require.NotEmpty(t, points)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 100.0)
	}
}

func TestRSI_AllGainsSaturates(t *testing.T) {
	candles := candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8)

	points := RSI(candles, 5)
	require.NotEmpty(t, points)
	for _, p := range points {
		assert.InDelta(t, 100.0, p.Value, 1e-12)
	}
}

func TestRSI_OutputAlignment(t *testing.T) {
	candles := candlesFromCloses(1, 2, 1, 2, 1, 2, 1)

	points := RSI(candles, 3)
	require.Len(t, points, len(candles)-3)
	assert.Equal(t, candles[3].Time, points[0].Time)
}

func TestMACD_AlignmentAndHistogram(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	candles := candlesFromCloses(closes...)

	result := MACD(candles, 12, 26, 9)
	require.Len(t, result.Line, len(candles)-25)
	require.Len(t, result.Signal, len(result.Line))
	require.Len(t, result.Histogram, len(result.Line))

	assert.Equal(t, candles[25].Time, result.Line[0].Time)
	for i := range result.Line {
		assert.InDelta(t, result.Line[i].Value-result.Signal[i].Value,
			result.Histogram[i].Value, 1e-9)
	}
}

func TestMACD_InsufficientInput(t *testing.T) {
	result := MACD(candlesFromCloses(1, 2, 3), 12, 26, 9)
	assert.Empty(t, result.Line)
	assert.Empty(t, result.Signal)
	assert.Empty(t, result.Histogram)
}

func TestBollingerBands_PopulationStdDev(t *testing.T) {
	candles := candlesFromCloses(2, 4, 4, 4, 5, 5, 7, 9)

	bands := BollingerBands(candles, 8, 2)
	require.Len(t, bands.Middle, 1)

	// Known population stdev of this series is exactly 2.
	assert.InDelta(t, 5.0, bands.Middle[0].Value, 1e-12)
	assert.InDelta(t, 9.0, bands.Upper[0].Value, 1e-12)
	assert.InDelta(t, 1.0, bands.Lower[0].Value, 1e-12)
}

func TestBollingerBands_ConstantSeriesCollapses(t *testing.T) {
	candles := candlesFromCloses(5, 5, 5, 5, 5)

	bands := BollingerBands(candles, 5, 2)
	require.Len(t, bands.Middle, 1)
	assert.InDelta(t, bands.Middle[0].Value, bands.Upper[0].Value, 1e-12)
	assert.InDelta(t, bands.Middle[0].Value, bands.Lower[0].Value, 1e-12)
}

func TestCompute_Defaults(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = float64(50 + i%7)
	}
	candles := candlesFromCloses(closes...)

	sma := Compute(KindSMA, candles, Params{})
	assert.Equal(t, "SMA(20)", sma.Name)
	assert.Equal(t, ClassOverlay, sma.Class)
	assert.True(t, sma.Visible)
	assert.NotEmpty(t, sma.ID)
	require.Len(t, sma.Metrics, 1)
	assert.Len(t, sma.Metrics[0].Points, 81)

	rsi := Compute(KindRSI, candles, Params{})
	assert.Equal(t, "RSI(14)", rsi.Name)
	assert.Equal(t, ClassOscillator, rsi.Class)

	macd := Compute(KindMACD, candles, Params{})
	require.Len(t, macd.Metrics, 3)
}

func TestCompute_EmptyInputNeverPanics(t *testing.T) {
	for kind := KindSMA; kind <= KindATR; kind++ {
		ind := Compute(kind, nil, Params{})
		for _, m := range ind.Metrics {
			assert.Empty(t, m.Points)
		}
	}
}

func TestVolumeProfile(t *testing.T) {
	candles := []core.Candle{
		{Time: 60, Open: 9, High: 11, Low: 9, Close: 10, Volume: 100},
		{Time: 120, Open: 10, High: 12, Low: 10, Close: 11, Volume: 200},
		{Time: 180, Open: 21, High: 22, Low: 19, Close: 20, Volume: 300},
	}

	buckets := VolumeProfile(candles, 10)
	require.NotEmpty(t, buckets)

	var total float64
	for _, b := range buckets {
		assert.Greater(t, b.Volume, 0.0)
		assert.InDelta(t, b.Volume, b.BuyVolume+b.SellVolume, 1e-9)
		total += b.Volume
	}
	assert.InDelta(t, 600.0, total, 1e-9)
}

func TestSupportResistance_MergesNearbyLevels(t *testing.T) {
	// Two dips to almost the same price should merge into one support.
	closes := []float64{10, 8, 5.0, 8, 10, 9, 5.05, 9, 10, 11, 10}
	candles := candlesFromCloses(closes...)

	levels := SupportResistance(candles, 2, 0.02)
	require.NotEmpty(t, levels)

	supports := 0
	for _, l := range levels {
		if l.Type == LevelSupport && l.Price < 6 {
			supports++
			assert.Equal(t, 2, l.Strength)
		}
	}
	assert.Equal(t, 1, supports)
}
