package domain

import (
	"slices"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_Monotonic(t *testing.T) {
	start := time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)
	fc := clockwork.NewFakeClockAt(start)
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })

	var gen IDGenerator
	id1, at1 := gen.Next()
	id2, at2 := gen.Next()

	assert.Equal(t, "1709980200000", id1)
	assert.Equal(t, start, at1)
	assert.Equal(t, "1709980200001", id2, "same millisecond must still advance")
	assert.Equal(t, start.Add(time.Millisecond), at2)

	fc.Advance(time.Second)
	id3, _ := gen.Next()
	assert.Equal(t, "1709980201000", id3)
	assert.Equal(t, -1, CompareIDs(id2, id3))
}

func TestIDGenerator_ClockGoesBackwards(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC))
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })

	var gen IDGenerator
	first, _ := gen.Next()

	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 3, 9, 10, 29, 0, 0, time.UTC)))
	second, _ := gen.Next()
	assert.Equal(t, -1, CompareIDs(first, second))
}

func TestNow_TruncatesToMillis(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, 123000000, Now().Nanosecond())
}

func TestIDTime(t *testing.T) {
	tm, ok := IDTime("1700000000000")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), tm)

	for _, id := range []string{"", "-Nabc123", "12", "99999999999999999", "17000000000x0"} {
		_, ok := IDTime(id)
		assert.False(t, ok, id)
	}
}

func TestCompareIDs(t *testing.T) {
	ids := []string{"b", "1700000000010", "-Nxyz", "999", "1700000000002", "0042"}
	slices.SortFunc(ids, CompareIDs)

	assert.Equal(t, []string{"0042", "999", "1700000000002", "1700000000010", "-Nxyz", "b"}, ids)
	assert.Equal(t, 0, CompareIDs("042", "42"))
}
