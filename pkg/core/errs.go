package core

import "errors"

var (
	ErrInvalidCandle      = errors.New("invalid candle bounds")
	ErrNonMonotonicSeries = errors.New("candle times are not strictly increasing")
	ErrEmptySeries        = errors.New("empty candle series")
	ErrNotFound           = errors.New("not found")
)
