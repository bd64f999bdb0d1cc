package metric

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// String formats the metrics snapshot as a text table for terminal
// output.
func (m PerformanceMetrics) String() string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)

	data := [][]string{
		{"Trades", strconv.Itoa(m.TotalTrades)},
		{"Win", strconv.Itoa(m.WinningTrades)},
		{"Loss", strconv.Itoa(m.LosingTrades)},
		{"% Win", fmt.Sprintf("%.1f", m.WinRate)},
		{"Payoff", fmt.Sprintf("%.2f", m.Payoff)},
		{"Pr.Fact", fmt.Sprintf("%.2f", m.ProfitFactor)},
		{"SQN", fmt.Sprintf("%.2f", m.SQN)},
		{"Profit", fmt.Sprintf("%.4f", m.TotalProfit)},
		{"Max DD %", fmt.Sprintf("%.2f", m.MaxDrawdown)},
		{"Sharpe", fmt.Sprintf("%.3f", m.SharpeRatio)},
		{"Sortino", fmt.Sprintf("%.3f", m.SortinoRatio)},
		{"Calmar", fmt.Sprintf("%.3f", m.CalmarRatio)},
		{"VaR 95%", fmt.Sprintf("%.4f", m.VaR95)},
		{"ES 95%", fmt.Sprintf("%.4f", m.ES95)},
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	return tableString.String()
}
