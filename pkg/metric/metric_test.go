package metric

import (
	"testing"
	"time"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeWithProfit(profitAbs, profitPct float64) core.Trade {
	return core.Trade{
		Pair:      "BTCUSDT",
		OpenDate:  time.Unix(1700000000, 0),
		CloseDate: time.Unix(1700003600, 0),
		ProfitAbs: profitAbs,
		ProfitPct: profitPct,
	}
}

func TestCalculate_EmptyTrades(t *testing.T) {
	m := Calculate(nil, 1000)

	assert.Zero(t, m.TotalTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.SharpeRatio)
	assert.NotNil(t, m.EquityCurve)
	assert.Empty(t, m.EquityCurve)
	assert.NotNil(t, m.Drawdowns)
	assert.Equal(t, StreakNone, m.CurrentStreakType)
}

func TestCalculate_DrawdownScenario(t *testing.T) {
	trades := []core.Trade{
		tradeWithProfit(100, 10),
		tradeWithProfit(-50, -5),
		tradeWithProfit(-50, -5),
		tradeWithProfit(200, 20),
	}

	m := Calculate(trades, 1000)

	// Curve tracks equity after each trade; the initial capital itself
	// is not an element.
	require.Equal(t, []float64{1100, 1050, 1000, 1200}, m.EquityCurve)

	// Peak 1100 after the first trade, trough 1000: 100/1100.
	assert.InDelta(t, 9.0909, m.MaxDrawdown, 1e-3)
	assert.Equal(t, 2, m.MaxDrawdownPeriod)

	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 2, m.LosingTrades)
	assert.InDelta(t, 50.0, m.WinRate, 1e-9)
	assert.InDelta(t, 3.0, m.ProfitFactor, 1e-9)
	assert.InDelta(t, 3.0, m.Payoff, 1e-9)
	assert.InDelta(t, 200.0, m.TotalProfit, 1e-9)
}

func TestCalculate_NoLossesZeroProfitFactor(t *testing.T) {
	trades := []core.Trade{
		tradeWithProfit(100, 10),
		tradeWithProfit(50, 5),
	}

	m := Calculate(trades, 1000)
	assert.Zero(t, m.ProfitFactor)
	assert.InDelta(t, 100.0, m.WinRate, 1e-9)
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.CalmarRatio)
}

func TestCalculate_ConstantEquityZeroRatios(t *testing.T) {
	trades := []core.Trade{
		tradeWithProfit(0, 0),
		tradeWithProfit(0, 0),
		tradeWithProfit(0, 0),
	}

	m := Calculate(trades, 1000)

	// Zero volatility must not divide: ratios collapse to zero.
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.SharpeRatio)
	assert.Zero(t, m.SortinoRatio)
	assert.Equal(t, StreakNone, m.CurrentStreakType)
}

func TestCalculate_Streaks(t *testing.T) {
	trades := []core.Trade{
		tradeWithProfit(10, 1),
		tradeWithProfit(10, 1),
		tradeWithProfit(10, 1),
		tradeWithProfit(-10, -1),
		tradeWithProfit(-10, -1),
		tradeWithProfit(10, 1),
	}

	m := Calculate(trades, 1000)
	assert.Equal(t, 3, m.LongestWinStreak)
	assert.Equal(t, 2, m.LongestLossStreak)
	assert.Equal(t, 1, m.CurrentStreak)
	assert.Equal(t, StreakWin, m.CurrentStreakType)
}

func TestReturns(t *testing.T) {
	returns := Returns([]float64{1000, 1100, 1045})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.1, returns[0], 1e-9)
	assert.InDelta(t, -0.05, returns[1], 1e-9)

	assert.Empty(t, Returns([]float64{1000}))
	assert.Empty(t, Returns(nil))
}

func TestValueAtRisk(t *testing.T) {
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = float64(i-50) / 100 // -0.50 .. 0.49
	}

	v := ValueAtRisk(returns, 0.95)
	assert.InDelta(t, -0.45, v, 1e-9)

	es := ExpectedShortfall(returns, 0.95)
	assert.LessOrEqual(t, es, v)
}

func TestBootstrap(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	interval := Bootstrap(values, func(v []float64) float64 {
		var sum float64
		for _, x := range v {
			sum += x
		}
		return sum / float64(len(v))
	}, 500, 0.95)

	assert.Greater(t, interval.Upper, interval.Lower)
	assert.InDelta(t, 5.5, interval.Mean, 1.0)

	assert.Zero(t, Bootstrap(nil, nil, 100, 0.95))
}
