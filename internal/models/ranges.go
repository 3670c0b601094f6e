package models

import (
	"fmt"
	"strings"
)

// Range is a logical price-history window.
type Range string

const (
	Range1D Range = "1D"
	Range1W Range = "1W"
	Range1M Range = "1M"
	Range6M Range = "6M"
	Range1Y Range = "1Y"
	Range5Y Range = "5Y"
)

// Interval is a bar granularity. The empty value means "use the range default".
type Interval string

const (
	IntervalNone  Interval = ""
	Interval1Min  Interval = "1m"
	Interval15Min Interval = "15m"
	Interval1Hour Interval = "1h"
	Interval1Day  Interval = "1d"
)

// ParseRange normalizes and validates a range token.
func ParseRange(s string) (Range, error) {
	switch Range(strings.ToUpper(strings.TrimSpace(s))) {
	case Range1D:
		return Range1D, nil
	case Range1W:
		return Range1W, nil
	case Range1M:
		return Range1M, nil
	case Range6M:
		return Range6M, nil
	case Range1Y:
		return Range1Y, nil
	case Range5Y:
		return Range5Y, nil
	}
	return "", fmt.Errorf("unknown range %q", s)
}

// ParseInterval normalizes and validates an interval token.
// An empty token is valid and yields IntervalNone.
func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case IntervalNone:
		return IntervalNone, nil
	case Interval1Min:
		return Interval1Min, nil
	case Interval15Min:
		return Interval15Min, nil
	case Interval1Hour:
		return Interval1Hour, nil
	case Interval1Day:
		return Interval1Day, nil
	}
	return "", fmt.Errorf("unknown interval %q", s)
}
