package indicator

import "github.com/raykavin/chartview/pkg/core"

// RSI computes the relative strength index over bar-to-bar deltas
// using a simple trailing average of gains and losses. Output starts
// at candles[period]. When the average loss over the window is zero
// the relative strength is unbounded and RSI saturates at 100.
func RSI(candles []core.Candle, period int) []Point {
	if period <= 0 || len(candles) <= period {
		return []Point{}
	}

	gains := make([]float64, len(candles))
	losses := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		delta := candles[i].Close - candles[i-1].Close
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	out := make([]Point, 0, len(candles)-period)

	var gainSum, lossSum float64
	for i := 1; i < len(candles); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		value := 100.0
		if avgLoss != 0 {
			rs := avgGain / avgLoss
			value = 100 - 100/(1+rs)
		}

		out = append(out, Point{Time: candles[i].Time, Value: value})
	}

	return out
}

// MACDResult holds the three MACD series.
type MACDResult struct {
	Line      []Point
	Signal    []Point
	Histogram []Point
}

// MACD computes the moving average convergence/divergence. The MACD
// line is the fast EMA minus the slow EMA, aligned from the bar where
// the slow window first covers the input. The signal line is an EMA of
// the MACD line and the histogram their difference.
func MACD(candles []core.Candle, fast, slow, signal int) MACDResult {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(candles) < slow {
		return MACDResult{Line: []Point{}, Signal: []Point{}, Histogram: []Point{}}
	}

	emaFast := EMA(candles, fast)
	emaSlow := EMA(candles, slow)

	start := slow - 1
	size := len(candles) - start

	line := make([]Point, size)
	values := make([]float64, size)
	for i := 0; i < size; i++ {
		idx := start + i
		values[i] = emaFast[idx].Value - emaSlow[idx].Value
		line[i] = Point{Time: candles[idx].Time, Value: values[i]}
	}

	signalValues := emaValues(values, signal)
	signalLine := make([]Point, size)
	histogram := make([]Point, size)
	for i := 0; i < size; i++ {
		signalLine[i] = Point{Time: line[i].Time, Value: signalValues[i]}
		histogram[i] = Point{Time: line[i].Time, Value: values[i] - signalValues[i]}
	}

	return MACDResult{Line: line, Signal: signalLine, Histogram: histogram}
}
