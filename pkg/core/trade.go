package core

import "time"

// Trade is one closed trade reported by the task results API.
type Trade struct {
	Pair          string    `json:"pair"`
	OpenDate      time.Time `json:"open_date"`
	CloseDate     time.Time `json:"close_date"`
	OpenRate      float64   `json:"open_rate"`
	CloseRate     float64   `json:"close_rate"`
	Amount        float64   `json:"amount"`
	StakeAmount   float64   `json:"stake_amount"`
	ProfitAbs     float64   `json:"profit_abs"`
	ProfitPct     float64   `json:"profit_pct"`
	TradeDuration int64     `json:"trade_duration"`
	ExitReason    string    `json:"exit_reason"`
}

// IsWin reports whether the trade closed with a positive return.
func (t Trade) IsWin() bool { return t.ProfitPct > 0 }

// IsLoss reports whether the trade closed with a negative return.
func (t Trade) IsLoss() bool { return t.ProfitPct < 0 }

// MarkerSide tags a trade marker as the entry or the exit of its trade.
type MarkerSide string

const (
	MarkerOpen  MarkerSide = "open"
	MarkerClose MarkerSide = "close"
)

// MarkerPosition places a marker relative to its candle.
type MarkerPosition string

const (
	PositionAboveBar MarkerPosition = "aboveBar"
	PositionBelowBar MarkerPosition = "belowBar"
	PositionInBar    MarkerPosition = "inBar"
)

// TradeMarker is the visual annotation derived from one side of a trade.
// Each trade yields one open marker and one close marker sharing the
// same source trade but placed independently on the time axis.
type TradeMarker struct {
	Time     int64          `json:"time"`
	Side     MarkerSide     `json:"side"`
	Position MarkerPosition `json:"position"`
	Shape    string         `json:"shape"`
	Color    string         `json:"color"`
	Text     string         `json:"text"`
	Trade    *Trade         `json:"-"`
}
