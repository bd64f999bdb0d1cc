package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeries_LastAndLength(t *testing.T) {
	s := Series[float64]{1, 2, 3, 4}

	assert.Equal(t, 4, s.Length())
	assert.Equal(t, 4.0, s.Last(0))
	assert.Equal(t, 3.0, s.Last(1))
	assert.Equal(t, []float64{1, 2, 3, 4}, s.Values())
}

func TestSeries_LastValues(t *testing.T) {
	s := Series[int]{1, 2, 3, 4}

	assert.Equal(t, Series[int]{3, 4}, s.LastValues(2))
	assert.Equal(t, s, s.LastValues(10))
}

func TestSeries_Crossover(t *testing.T) {
	fast := Series[float64]{1, 3}
	slow := Series[float64]{2, 2}

	assert.True(t, fast.Crossover(slow))
	assert.False(t, fast.Crossunder(slow))
	assert.True(t, fast.Cross(slow))

	assert.True(t, slow.Crossunder(fast))
	assert.True(t, slow.Cross(fast))

	// Already above: no cross.
	above := Series[float64]{3, 4}
	below := Series[float64]{1, 2}
	assert.False(t, above.Crossover(below))
	assert.False(t, above.Cross(below))
}
