package indicator

import (
	"math"

	"github.com/raykavin/chartview/pkg/core"
)

// BandsResult holds the three Bollinger band series.
type BandsResult struct {
	Upper  []Point
	Middle []Point
	Lower  []Point
}

// BollingerBands computes a middle SMA band with upper and lower bands
// offset by k population standard deviations over the same window.
func BollingerBands(candles []core.Candle, period int, k float64) BandsResult {
	middle := SMA(candles, period)
	if len(middle) == 0 {
		return BandsResult{Upper: []Point{}, Middle: []Point{}, Lower: []Point{}}
	}

	upper := make([]Point, len(middle))
	lower := make([]Point, len(middle))

	for i := range middle {
		var variance float64
		mean := middle[i].Value
		for j := i; j < i+period; j++ {
			d := candles[j].Close - mean
			variance += d * d
		}
		stdev := math.Sqrt(variance / float64(period))

		upper[i] = Point{Time: middle[i].Time, Value: mean + k*stdev}
		lower[i] = Point{Time: middle[i].Time, Value: mean - k*stdev}
	}

	return BandsResult{Upper: upper, Middle: middle, Lower: lower}
}
