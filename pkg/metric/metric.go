// Package metric derives trade-level performance statistics from a
// closed-trade list. All calculations are pure and tolerate empty
// input by returning a fully-populated zero result.
package metric

import (
	"math"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// StreakType tags the direction of the streak at the tail of the
// trade sequence.
type StreakType string

const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// PerformanceMetrics is a derived snapshot over one trade list and an
// initial capital. It has no lifecycle beyond the computation call.
type PerformanceMetrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor"`
	Payoff        float64 `json:"payoff"`
	SQN           float64 `json:"sqn"`
	TotalProfit   float64 `json:"total_profit"`

	EquityCurve       []float64 `json:"equity_curve"`
	Drawdowns         []float64 `json:"drawdowns"`
	MaxDrawdown       float64   `json:"max_drawdown"`
	MaxDrawdownPeriod int       `json:"max_drawdown_period"`

	MeanReturn        float64 `json:"mean_return"`
	Volatility        float64 `json:"volatility"`
	DownsideDeviation float64 `json:"downside_deviation"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	SortinoRatio      float64 `json:"sortino_ratio"`
	CalmarRatio       float64 `json:"calmar_ratio"`
	VaR95             float64 `json:"var_95"`
	ES95              float64 `json:"es_95"`

	LongestWinStreak  int        `json:"longest_win_streak"`
	LongestLossStreak int        `json:"longest_loss_streak"`
	CurrentStreak     int        `json:"current_streak"`
	CurrentStreakType StreakType `json:"current_streak_type"`
}

// Calculate computes the complete metrics snapshot for a chronological
// trade list starting from the given capital.
func Calculate(trades []core.Trade, initialCapital float64) PerformanceMetrics {
	m := PerformanceMetrics{
		EquityCurve:       []float64{},
		Drawdowns:         []float64{},
		CurrentStreakType: StreakNone,
	}

	if len(trades) == 0 {
		return m
	}

	m.TotalTrades = len(trades)

	winners := lo.Filter(trades, func(t core.Trade, _ int) bool { return t.IsWin() })
	losers := lo.Filter(trades, func(t core.Trade, _ int) bool { return t.IsLoss() })
	m.WinningTrades = len(winners)
	m.LosingTrades = len(losers)
	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100

	var totalWin, totalLoss float64
	for _, t := range winners {
		totalWin += t.ProfitAbs
	}
	for _, t := range losers {
		totalLoss += math.Abs(t.ProfitAbs)
	}
	if totalLoss > 0 {
		m.ProfitFactor = totalWin / totalLoss
	}

	if len(winners) > 0 && len(losers) > 0 {
		avgWin := totalWin / float64(len(winners))
		avgLoss := totalLoss / float64(len(losers))
		if avgLoss > 0 {
			m.Payoff = avgWin / avgLoss
		}
	}

	// Equity curve and inclusive running-peak drawdowns.
	m.EquityCurve = make([]float64, len(trades))
	m.Drawdowns = make([]float64, len(trades))

	equity := initialCapital
	peak := math.Inf(-1)
	belowPeak := 0
	for i, t := range trades {
		equity += t.ProfitAbs
		m.TotalProfit += t.ProfitAbs
		m.EquityCurve[i] = equity

		if equity > peak {
			peak = equity
		}
		if peak != 0 {
			m.Drawdowns[i] = (peak - equity) / peak * 100
		}
		if m.Drawdowns[i] > m.MaxDrawdown {
			m.MaxDrawdown = m.Drawdowns[i]
		}

		if equity < peak {
			belowPeak++
			if belowPeak > m.MaxDrawdownPeriod {
				m.MaxDrawdownPeriod = belowPeak
			}
		} else {
			belowPeak = 0
		}
	}

	returns := Returns(m.EquityCurve)
	if len(returns) > 0 {
		m.MeanReturn = stat.Mean(returns, nil)
		m.Volatility = popStdDev(returns)

		downside := lo.Filter(returns, func(r float64, _ int) bool { return r < 0 })
		m.DownsideDeviation = popStdDev(downside)

		if m.Volatility != 0 {
			m.SharpeRatio = m.MeanReturn / m.Volatility
		}
		if m.DownsideDeviation != 0 {
			m.SortinoRatio = m.MeanReturn / m.DownsideDeviation
		}
		if m.MaxDrawdown != 0 {
			m.CalmarRatio = m.MeanReturn / m.MaxDrawdown
		}

		m.VaR95 = ValueAtRisk(returns, 0.95)
		m.ES95 = ExpectedShortfall(returns, 0.95)
	}

	m.SQN = sqn(trades)
	m.LongestWinStreak, m.LongestLossStreak, m.CurrentStreak, m.CurrentStreakType = streaks(trades)

	return m
}

// Returns converts an equity curve into per-step fractional returns.
func Returns(equity []float64) []float64 {
	if len(equity) < 2 {
		return []float64{}
	}

	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (equity[i]-equity[i-1])/equity[i-1])
	}
	return out
}

// sqn is the system quality number: sqrt(n) * mean / stdev of the
// absolute trade results.
func sqn(trades []core.Trade) float64 {
	profits := lo.Map(trades, func(t core.Trade, _ int) float64 { return t.ProfitAbs })

	sd := popStdDev(profits)
	if sd == 0 {
		return 0
	}
	return math.Sqrt(float64(len(profits))) * stat.Mean(profits, nil) / sd
}

// streaks finds the longest win and loss runs in chronological order
// plus the run at the tail of the sequence. Flat trades break both.
func streaks(trades []core.Trade) (longestWin, longestLoss, current int, currentType StreakType) {
	var winRun, lossRun int
	currentType = StreakNone

	for _, t := range trades {
		switch {
		case t.IsWin():
			winRun++
			lossRun = 0
			current = winRun
			currentType = StreakWin
		case t.IsLoss():
			lossRun++
			winRun = 0
			current = lossRun
			currentType = StreakLoss
		default:
			winRun, lossRun = 0, 0
			current = 0
			currentType = StreakNone
		}

		if winRun > longestWin {
			longestWin = winRun
		}
		if lossRun > longestLoss {
			longestLoss = lossRun
		}
	}

	return longestWin, longestLoss, current, currentType
}

// popStdDev is the population standard deviation (divide by n).
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := stat.Mean(values, nil)
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
