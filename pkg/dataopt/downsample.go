package dataopt

import (
	"math"
	"sort"

	"github.com/raykavin/chartview/pkg/core"
)

// Strategy selects the downsampling algorithm.
type Strategy int8

const (
	// StrategyLTTB keeps the candles that best preserve the visual
	// shape of the close line (largest-triangle-three-buckets).
	StrategyLTTB Strategy = iota
	// StrategyAverage emits one synthetic candle per bucket with mean
	// open/close, extreme high/low and summed volume.
	StrategyAverage
	// StrategyMaxMin keeps the extreme candles of each bucket.
	StrategyMaxMin
)

// Downsample reduces a candle series to roughly target points using
// the chosen strategy. Series already at or below the target are
// returned unchanged.
func Downsample(data []core.Candle, target int, strategy Strategy) []core.Candle {
	if target <= 0 || len(data) <= target {
		return data
	}

	switch strategy {
	case StrategyAverage:
		return AverageBuckets(data, target)
	case StrategyMaxMin:
		return MaxMin(data, target)
	default:
		return LTTB(data, target)
	}
}

// LTTB implements largest-triangle-three-buckets over the close
// series. The first and last candles are always retained; each
// intermediate bucket contributes the candle maximizing the triangle
// area with the previously selected candle and the average of the next
// bucket.
func LTTB(data []core.Candle, target int) []core.Candle {
	if target <= 0 || len(data) <= target {
		return data
	}
	if target < 3 {
		return []core.Candle{data[0], data[len(data)-1]}[:min(target, 2)]
	}

	out := make([]core.Candle, 0, target)
	out = append(out, data[0])

	bucketSize := float64(len(data)-2) / float64(target-2)
	selected := 0

	for i := 0; i < target-2; i++ {
		bucketStart := int(math.Floor(float64(i)*bucketSize)) + 1
		bucketEnd := int(math.Floor(float64(i+1)*bucketSize)) + 1
		if bucketEnd >= len(data)-1 {
			bucketEnd = len(data) - 1
		}

		// Anchor: the mean point of the following bucket.
		nextStart := bucketEnd
		nextEnd := int(math.Floor(float64(i+2)*bucketSize)) + 1
		if nextEnd > len(data) {
			nextEnd = len(data)
		}

		var avgX, avgY float64
		count := float64(nextEnd - nextStart)
		if count == 0 {
			count = 1
			avgX = float64(data[len(data)-1].Time)
			avgY = data[len(data)-1].Close
		} else {
			for j := nextStart; j < nextEnd; j++ {
				avgX += float64(data[j].Time)
				avgY += data[j].Close
			}
			avgX /= count
			avgY /= count
		}

		ax := float64(data[selected].Time)
		ay := data[selected].Close

		maxArea := -1.0
		maxIdx := bucketStart
		for j := bucketStart; j < bucketEnd; j++ {
			area := math.Abs((ax-avgX)*(data[j].Close-ay)-(ax-float64(data[j].Time))*(avgY-ay)) / 2
			if area > maxArea {
				maxArea = area
				maxIdx = j
			}
		}

		out = append(out, data[maxIdx])
		selected = maxIdx
	}

	out = append(out, data[len(data)-1])
	return out
}

// AverageBuckets collapses each of target contiguous windows into one
// synthetic candle. Open and close are the bucket means rather than
// first-open/last-close; the chart contract keeps that simplification.
func AverageBuckets(data []core.Candle, target int) []core.Candle {
	if target <= 0 || len(data) <= target {
		return data
	}

	out := make([]core.Candle, 0, target)

	for i := 0; i < target; i++ {
		start := i * len(data) / target
		end := (i + 1) * len(data) / target
		if end <= start {
			end = start + 1
		}

		bucket := data[start:end]
		agg := core.Candle{
			Time: bucket[0].Time,
			High: bucket[0].High,
			Low:  bucket[0].Low,
		}

		var openSum, closeSum float64
		for _, c := range bucket {
			openSum += c.Open
			closeSum += c.Close
			agg.Volume += c.Volume
			if c.High > agg.High {
				agg.High = c.High
			}
			if c.Low < agg.Low {
				agg.Low = c.Low
			}
		}

		agg.Open = openSum / float64(len(bucket))
		agg.Close = closeSum / float64(len(bucket))
		out = append(out, agg)
	}

	return out
}

// MaxMin keeps, per bucket, the candle holding the maximum high and,
// when distinct, the candle holding the minimum low. Visual extremes
// survive at the cost of an exact output count.
func MaxMin(data []core.Candle, target int) []core.Candle {
	if target <= 0 || len(data) <= target {
		return data
	}

	out := make([]core.Candle, 0, 2*target)

	for i := 0; i < target; i++ {
		start := i * len(data) / target
		end := (i + 1) * len(data) / target
		if end <= start {
			end = start + 1
		}

		maxIdx, minIdx := start, start
		for j := start; j < end; j++ {
			if data[j].High > data[maxIdx].High {
				maxIdx = j
			}
			if data[j].Low < data[minIdx].Low {
				minIdx = j
			}
		}

		if maxIdx == minIdx {
			out = append(out, data[maxIdx])
		} else if maxIdx < minIdx {
			out = append(out, data[maxIdx], data[minIdx])
		} else {
			out = append(out, data[minIdx], data[maxIdx])
		}
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Time < out[b].Time })
	return out
}

// OptimizeForRendering bounds the number of candles handed to the
// render surface by stride sampling against the viewport width.
func OptimizeForRendering(data []core.Candle, viewportWidth, maxPoints int) []core.Candle {
	if maxPoints <= 0 || len(data) <= maxPoints {
		return data
	}

	limit := maxPoints
	if viewportWidth > 0 && viewportWidth < limit {
		limit = viewportWidth
	}

	stride := int(math.Ceil(float64(len(data)) / float64(limit)))
	out := make([]core.Candle, 0, limit)
	for i := 0; i < len(data); i += stride {
		out = append(out, data[i])
	}

	return out
}
