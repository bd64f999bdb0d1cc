package indicator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/raykavin/chartview/pkg/core"
)

// Kind discriminates the supported indicator variants.
type Kind int8

const (
	KindSMA Kind = iota
	KindEMA
	KindRSI
	KindMACD
	KindBollinger
	KindVolumeProfile
	KindSupportResistance
	KindWILLR
	KindOBV
	KindCCI
	KindStoch
	KindATR
)

// String returns the display name of the indicator kind.
func (k Kind) String() string {
	switch k {
	case KindSMA:
		return "SMA"
	case KindEMA:
		return "EMA"
	case KindRSI:
		return "RSI"
	case KindMACD:
		return "MACD"
	case KindBollinger:
		return "BB"
	case KindVolumeProfile:
		return "VP"
	case KindSupportResistance:
		return "SR"
	case KindWILLR:
		return "WILLR"
	case KindOBV:
		return "OBV"
	case KindCCI:
		return "CCI"
	case KindStoch:
		return "STOCH"
	case KindATR:
		return "ATR"
	default:
		return "UNKNOWN"
	}
}

// Class separates price-overlay indicators from panel oscillators.
type Class int8

const (
	ClassOverlay Class = iota
	ClassOscillator
)

// Class returns whether the kind is drawn over the price axis or in
// its own oscillator panel.
func (k Kind) Class() Class {
	switch k {
	case KindSMA, KindEMA, KindBollinger, KindSupportResistance, KindVolumeProfile:
		return ClassOverlay
	default:
		return ClassOscillator
	}
}

// Point is one value of a derived series, aligned to a candle time.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Metric is one plotted line/histogram of an indicator. MACD carries
// three metrics, Bollinger bands also three, most kinds a single one.
type Metric struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Style  string  `json:"style"` // line, histogram, scatter
	Points []Point `json:"points"`
}

// Series returns the metric's value column as an ordered series, for
// last-value and crossover queries.
func (m Metric) Series() core.Series[float64] {
	values := make(core.Series[float64], len(m.Points))
	for i, p := range m.Points {
		values[i] = p.Value
	}
	return values
}

// Params holds the numeric settings of an indicator request.
type Params struct {
	Period    int     `json:"period,omitempty"`
	Fast      int     `json:"fast,omitempty"`
	Slow      int     `json:"slow,omitempty"`
	Signal    int     `json:"signal,omitempty"`
	StdDev    float64 `json:"std_dev,omitempty"`
	Levels    int     `json:"levels,omitempty"`
	Lookback  int     `json:"lookback,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// TechnicalIndicator is one computed indicator instance owned by the
// chart container. Instances of the same kind share no state.
type TechnicalIndicator struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Name     string   `json:"name"`
	Class    Class    `json:"class"`
	Metrics  []Metric `json:"metrics"`
	Visible  bool     `json:"visible"`
	Settings Params   `json:"settings"`
}

// Compute evaluates the requested indicator kind over the candle
// series. Insufficient input yields an indicator with empty metrics,
// never an error: the render path stays resilient.
func Compute(kind Kind, candles []core.Candle, params Params) TechnicalIndicator {
	ind := TechnicalIndicator{
		ID:       uuid.NewString(),
		Kind:     kind,
		Class:    kind.Class(),
		Visible:  true,
		Settings: params,
	}

	switch kind {
	case KindSMA:
		period := defaultInt(params.Period, 20)
		ind.Name = fmt.Sprintf("SMA(%d)", period)
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#2962ff"), Style: "line", Points: SMA(candles, period)}}
	case KindEMA:
		period := defaultInt(params.Period, 20)
		ind.Name = fmt.Sprintf("EMA(%d)", period)
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#ff6d00"), Style: "line", Points: EMA(candles, period)}}
	case KindRSI:
		period := defaultInt(params.Period, 14)
		ind.Name = fmt.Sprintf("RSI(%d)", period)
		ind.Metrics = []Metric{{Name: ind.Name, Color: color(params, "#7b1fa2"), Style: "line", Points: RSI(candles, period)}}
	case KindMACD:
		fast := defaultInt(params.Fast, 12)
		slow := defaultInt(params.Slow, 26)
		signal := defaultInt(params.Signal, 9)
		ind.Name = fmt.Sprintf("MACD(%d,%d,%d)", fast, slow, signal)
		macd := MACD(candles, fast, slow, signal)
		ind.Metrics = []Metric{
			{Name: "macd", Color: color(params, "#2962ff"), Style: "line", Points: macd.Line},
			{Name: "signal", Color: "#ff6d00", Style: "line", Points: macd.Signal},
			{Name: "histogram", Color: "#26a69a", Style: "histogram", Points: macd.Histogram},
		}
	case KindBollinger:
		period := defaultInt(params.Period, 20)
		k := params.StdDev
		if k == 0 {
			k = 2
		}
		ind.Name = fmt.Sprintf("BB(%d,%.1f)", period, k)
		bands := BollingerBands(candles, period, k)
		ind.Metrics = []Metric{
			{Name: "upper", Color: color(params, "#787b86"), Style: "line", Points: bands.Upper},
			{Name: "middle", Color: "#2962ff", Style: "line", Points: bands.Middle},
			{Name: "lower", Color: color(params, "#787b86"), Style: "line", Points: bands.Lower},
		}
	case KindWILLR:
		ind = computeTalib(ind, kind, candles, params)
	case KindOBV:
		ind = computeTalib(ind, kind, candles, params)
	case KindCCI:
		ind = computeTalib(ind, kind, candles, params)
	case KindStoch:
		ind = computeTalib(ind, kind, candles, params)
	case KindATR:
		ind = computeTalib(ind, kind, candles, params)
	case KindVolumeProfile, KindSupportResistance:
		// Computed through their dedicated entry points; the generic
		// metric shape does not fit their bucket/level results.
		ind.Name = kind.String()
	}

	return ind
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func color(p Params, def string) string {
	if p.Color != "" {
		return p.Color
	}
	return def
}
