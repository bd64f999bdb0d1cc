package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartview/pkg/core"
)

// computeTalib evaluates the extended oscillator catalog backed by
// go-talib. The library emits full-length slices padded with zeros
// during warm-up, so results are trimmed to the effective window.
func computeTalib(ind TechnicalIndicator, kind Kind, candles []core.Candle, params Params) TechnicalIndicator {
	period := defaultInt(params.Period, 14)

	if len(candles) <= period {
		ind.Name = kind.String()
		ind.Metrics = []Metric{}
		return ind
	}

	high := core.Highs(candles)
	low := core.Lows(candles)
	closes := core.Closes(candles)

	switch kind {
	case KindWILLR:
		ind.Name = fmt.Sprintf("WILLR(%d)", period)
		values := talib.WillR(high, low, closes, period)
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#c62828"), Style: "line", Points: toPoints(candles, values, period)}}
	case KindOBV:
		ind.Name = "OBV"
		values := talib.Obv(closes, core.Volumes(candles))
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#00897b"), Style: "line", Points: toPoints(candles, values, 0)}}
	case KindCCI:
		ind.Name = fmt.Sprintf("CCI(%d)", period)
		values := talib.Cci(high, low, closes, period)
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#5d4037"), Style: "line", Points: toPoints(candles, values, period)}}
	case KindStoch:
		fast := defaultInt(params.Fast, 5)
		slowK := defaultInt(params.Slow, 3)
		slowD := defaultInt(params.Signal, 3)
		ind.Name = fmt.Sprintf("STOCH(%d,%d,%d)", fast, slowK, slowD)
		k, d := talib.Stoch(high, low, closes, fast, slowK, talib.SMA, slowD, talib.SMA)
		warmup := fast + slowK + slowD
		ind.Metrics = []Metric{
			{Name: "%K", Color: color(params, "#2962ff"), Style: "line", Points: toPoints(candles, k, warmup)},
			{Name: "%D", Color: "#ff6d00", Style: "line", Points: toPoints(candles, d, warmup)},
		}
	case KindATR:
		ind.Name = fmt.Sprintf("ATR(%d)", period)
		values := talib.Atr(high, low, closes, period)
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#546e7a"), Style: "line", Points: toPoints(candles, values, period)}}
	}

	return ind
}

func toPoints(candles []core.Candle, values []float64, warmup int) []Point {
	if warmup >= len(values) {
		return []Point{}
	}

	out := make([]Point, 0, len(values)-warmup)
	for i := warmup; i < len(values); i++ {
		out = append(out, Point{Time: candles[i].Time, Value: values[i]})
	}
	return out
}
