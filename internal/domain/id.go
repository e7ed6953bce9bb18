package domain

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package-level time source for IDs and creation stamps.
// Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock, truncated to the
// millisecond precision that stored timestamps carry.
func Now() time.Time {
	return clock.Now().UTC().Truncate(time.Millisecond)
}

// IDGenerator hands out millisecond IDs that strictly increase within the
// process.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// Next returns a new ID and the instant it encodes.
func (g *IDGenerator) Next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC()
}

// minIDTime and maxIDTime bound what counts as a plausible millisecond ID,
// so arbitrary numeric keys are not read as dates.
var (
	minIDTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	maxIDTime = time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
)

// IDTime decodes the instant from a millisecond ID.
func IDTime(id string) (time.Time, bool) {
	if !isDigits(id) {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	t := time.UnixMilli(ms).UTC()
	if t.Before(minIDTime) || t.After(maxIDTime) {
		return time.Time{}, false
	}
	return t, true
}

// CompareIDs orders report IDs by creation. Numeric IDs compare by value
// and sort before any non-numeric key; other keys compare lexically.
func CompareIDs(a, b string) int {
	da, db := isDigits(a), isDigits(b)
	switch {
	case da && db:
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case da:
		return -1
	case db:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
