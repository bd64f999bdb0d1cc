package indicator

import (
	"math"
	"sort"

	"github.com/raykavin/chartview/pkg/core"
)

// LevelType discriminates support and resistance levels.
type LevelType int8

const (
	LevelSupport LevelType = iota
	LevelResistance
)

// Level is one detected price level. Strength counts the number of
// merged candidates.
type Level struct {
	Type     LevelType `json:"type"`
	Price    float64   `json:"price"`
	Strength int       `json:"strength"`
	Time     int64     `json:"time"`
}

// SupportResistance detects local price extremes and merges nearby
// candidates of the same type. A bar is a resistance candidate when
// its high is the strict maximum within lookback bars on both sides;
// support is the analog on the low. Candidates whose prices lie within
// the given fractional tolerance are merged: the merged price is the
// running average and strength the candidate count. The result is
// sorted by strength descending.
func SupportResistance(candles []core.Candle, lookback int, tolerance float64) []Level {
	if lookback <= 0 || len(candles) < 2*lookback+1 {
		return []Level{}
	}

	var levels []Level

	for i := lookback; i < len(candles)-lookback; i++ {
		if isStrictExtreme(candles, i, lookback, true) {
			levels = merge(levels, Level{
				Type:     LevelResistance,
				Price:    candles[i].High,
				Strength: 1,
				Time:     candles[i].Time,
			}, tolerance)
		}
		if isStrictExtreme(candles, i, lookback, false) {
			levels = merge(levels, Level{
				Type:     LevelSupport,
				Price:    candles[i].Low,
				Strength: 1,
				Time:     candles[i].Time,
			}, tolerance)
		}
	}

	sort.SliceStable(levels, func(a, b int) bool {
		return levels[a].Strength > levels[b].Strength
	})

	return levels
}

func isStrictExtreme(candles []core.Candle, i, lookback int, high bool) bool {
	for j := i - lookback; j <= i+lookback; j++ {
		if j == i {
			continue
		}
		if high && candles[j].High >= candles[i].High {
			return false
		}
		if !high && candles[j].Low <= candles[i].Low {
			return false
		}
	}
	return true
}

func merge(levels []Level, candidate Level, tolerance float64) []Level {
	for i, l := range levels {
		if l.Type != candidate.Type {
			continue
		}
		if math.Abs(l.Price-candidate.Price)/l.Price <= tolerance {
			count := float64(l.Strength)
			levels[i].Price = (l.Price*count + candidate.Price) / (count + 1)
			levels[i].Strength++
			return levels
		}
	}
	return append(levels, candidate)
}
