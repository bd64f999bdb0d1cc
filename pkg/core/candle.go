package core

import (
	"strconv"
	"time"
)

// Candle represents one OHLCV record of a trading series.
// Time is expressed in seconds since the Unix epoch, matching the
// payload of the task results API.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// GetTime returns the candle timestamp as time.Time.
func (c Candle) GetTime() time.Time { return time.Unix(c.Time, 0).UTC() }

// IsBullish reports whether the candle closed at or above its open.
func (c Candle) IsBullish() bool { return c.Close >= c.Open }

// IsEmpty checks if the candle contains no significant data.
func (c Candle) IsEmpty() bool {
	return c.Open == 0 && c.Close == 0 && c.Volume == 0
}

// Validate checks the internal OHLC consistency of a single candle.
func (c Candle) Validate() error {
	if c.High < c.Open || c.High < c.Close {
		return ErrInvalidCandle
	}
	if c.Low > c.Open || c.Low > c.Close {
		return ErrInvalidCandle
	}
	return nil
}

// ToSlice converts a candle to a string slice for CSV serialization
// with the specified decimal precision.
func (c Candle) ToSlice(precision int) []string {
	return []string{
		strconv.FormatInt(c.Time, 10),
		strconv.FormatFloat(c.Open, 'f', precision, 64),
		strconv.FormatFloat(c.Close, 'f', precision, 64),
		strconv.FormatFloat(c.Low, 'f', precision, 64),
		strconv.FormatFloat(c.High, 'f', precision, 64),
		strconv.FormatFloat(c.Volume, 'f', precision, 64),
	}
}

// ValidateSeries checks that candle times are strictly increasing and
// that every candle is internally consistent.
func ValidateSeries(candles []Candle) error {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return err
		}
		if i > 0 && candles[i-1].Time >= c.Time {
			return ErrNonMonotonicSeries
		}
	}
	return nil
}

// Closes extracts the close column from a candle series.
func Closes(candles []Candle) []float64 {
	values := make([]float64, len(candles))
	for i, c := range candles {
		values[i] = c.Close
	}
	return values
}

// Highs extracts the high column from a candle series.
func Highs(candles []Candle) []float64 {
	values := make([]float64, len(candles))
	for i, c := range candles {
		values[i] = c.High
	}
	return values
}

// Lows extracts the low column from a candle series.
func Lows(candles []Candle) []float64 {
	values := make([]float64, len(candles))
	for i, c := range candles {
		values[i] = c.Low
	}
	return values
}

// Volumes extracts the volume column from a candle series.
func Volumes(candles []Candle) []float64 {
	values := make([]float64, len(candles))
	for i, c := range candles {
		values[i] = c.Volume
	}
	return values
}
