package indicator

import "github.com/raykavin/chartview/pkg/core"

// SMA computes the simple moving average of the close series over a
// trailing window. Output length is len(candles)-period+1 with the
// first point aligned to candles[period-1].
func SMA(candles []core.Candle, period int) []Point {
	if period <= 0 || len(candles) < period {
		return []Point{}
	}

	out := make([]Point, 0, len(candles)-period+1)

	var sum float64
	for i, c := range candles {
		sum += c.Close
		if i >= period {
			sum -= candles[i-period].Close
		}
		if i >= period-1 {
			out = append(out, Point{Time: c.Time, Value: sum / float64(period)})
		}
	}

	return out
}

// EMA computes the exponential moving average of the close series.
// The first close seeds the average, so the output covers every input
// bar with no warm-up truncation. This asymmetry versus SMA is part of
// the chart contract and preserved intentionally.
func EMA(candles []core.Candle, period int) []Point {
	if period <= 0 || len(candles) == 0 {
		return []Point{}
	}

	multiplier := 2.0 / float64(period+1)
	out := make([]Point, len(candles))

	ema := candles[0].Close
	out[0] = Point{Time: candles[0].Time, Value: ema}

	for i := 1; i < len(candles); i++ {
		ema = (candles[i].Close-ema)*multiplier + ema
		out[i] = Point{Time: candles[i].Time, Value: ema}
	}

	return out
}

// emaValues runs the EMA recurrence over a raw value slice. Used by
// MACD for the signal line.
func emaValues(values []float64, period int) []float64 {
	if period <= 0 || len(values) == 0 {
		return nil
	}

	multiplier := 2.0 / float64(period+1)
	out := make([]float64, len(values))
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}

	return out
}
