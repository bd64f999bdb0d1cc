package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandle_Validate(t *testing.T) {
	valid := Candle{Time: 60, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100}
	assert.NoError(t, valid.Validate())

	highBelowClose := Candle{Time: 60, Open: 10, High: 10.5, Low: 9, Close: 11}
	assert.ErrorIs(t, highBelowClose.Validate(), ErrInvalidCandle)

	lowAboveOpen := Candle{Time: 60, Open: 10, High: 12, Low: 10.5, Close: 11}
	assert.ErrorIs(t, lowAboveOpen.Validate(), ErrInvalidCandle)
}

func TestValidateSeries(t *testing.T) {
	series := []Candle{
		{Time: 60, Open: 10, High: 12, Low: 9, Close: 11},
		{Time: 120, Open: 11, High: 13, Low: 10, Close: 12},
	}
	assert.NoError(t, ValidateSeries(series))
	assert.NoError(t, ValidateSeries(nil))

	duplicate := []Candle{series[0], series[0]}
	assert.ErrorIs(t, ValidateSeries(duplicate), ErrNonMonotonicSeries)

	reversed := []Candle{series[1], series[0]}
	assert.ErrorIs(t, ValidateSeries(reversed), ErrNonMonotonicSeries)
}

func TestCandle_IsBullish(t *testing.T) {
	assert.True(t, Candle{Open: 10, Close: 11}.IsBullish())
	assert.True(t, Candle{Open: 10, Close: 10}.IsBullish())
	assert.False(t, Candle{Open: 10, Close: 9}.IsBullish())
}

func TestCandle_GetTime(t *testing.T) {
	c := Candle{Time: 1700000000}
	assert.Equal(t, int64(1700000000), c.GetTime().Unix())
	assert.Equal(t, "UTC", c.GetTime().Location().String())
}

func TestCandle_IsEmpty(t *testing.T) {
	assert.True(t, Candle{Time: 60}.IsEmpty())
	assert.False(t, Candle{Time: 60, Open: 10, Close: 11, Volume: 1}.IsEmpty())
	assert.False(t, Candle{Time: 60, Volume: 1}.IsEmpty())
}

func TestCandle_ToSlice(t *testing.T) {
	c := Candle{Time: 60, Open: 1.5, High: 3, Low: 1, Close: 2.25, Volume: 10}

	row := c.ToSlice(2)
	require.Len(t, row, 6)
	assert.Equal(t, "60", row[0])
	assert.Equal(t, "1.50", row[1])
	assert.Equal(t, "2.25", row[2])
}

func TestColumnExtractors(t *testing.T) {
	series := []Candle{
		{High: 12, Low: 9, Close: 11, Volume: 100},
		{High: 13, Low: 10, Close: 12, Volume: 200},
	}

	assert.Equal(t, []float64{11, 12}, Closes(series))
	assert.Equal(t, []float64{12, 13}, Highs(series))
	assert.Equal(t, []float64{9, 10}, Lows(series))
	assert.Equal(t, []float64{100, 200}, Volumes(series))
}
