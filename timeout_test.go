// Copyright 2016 Aleksandr Demakin. All rights reserved.

package futex

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/nxgtw/go-futex/internal/sys"
)

func TestDurationToTimespec(t *testing.T) {
	a := assert.New(t)
	d := time.Second + time.Millisecond*500
	ts := durationToTimespec(d)
	a.EqualValues(1, ts.Sec)
	a.EqualValues(500000000, ts.Nsec)
	a.Equal(d, timespecToDuration(ts))

	ts = durationToTimespec(time.Nanosecond * 999999999)
	a.EqualValues(0, ts.Sec)
	a.EqualValues(999999999, ts.Nsec)

	ts = durationToTimespec(-time.Second)
	a.EqualValues(0, ts.Sec)
	a.EqualValues(0, ts.Nsec)
}

func TestInstantTimespec(t *testing.T) {
	a := assert.New(t)
	clock, ts := Instant(time.Second * 3 / 2).timespec()
	a.Equal(sys.Op(0), clock)
	a.EqualValues(1, ts.Sec)
	a.EqualValues(500000000, ts.Nsec)
	a.Panics(func() { Instant(-1).timespec() })
}

func TestRealtimeTimespec(t *testing.T) {
	a := assert.New(t)
	clock, ts := Realtime(time.Unix(12, 345)).timespec()
	a.Equal(sys.ClockRealtime, clock)
	a.EqualValues(12, ts.Sec)
	a.EqualValues(345, ts.Nsec)
	_, ts = Realtime(time.Unix(0, 0)).timespec()
	a.EqualValues(0, ts.Sec)
	a.Panics(func() { Realtime(time.Unix(-1, 0)).timespec() })
}

func TestInstantArithmetic(t *testing.T) {
	a := assert.New(t)
	now := Now()
	var ts unix.Timespec
	if !a.NoError(unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)) {
		return
	}
	a.True(Instant(timespecToDuration(ts)) >= now)
	later := now.Add(time.Minute)
	a.Equal(time.Minute, later.Sub(now))
	a.True(later.Until() > time.Second*59)
	a.True(After(time.Hour) > later)
}

func TestInstantAddSaturates(t *testing.T) {
	a := assert.New(t)
	a.Equal(Instant(math.MaxInt64), Instant(math.MaxInt64-10).Add(time.Hour))
	a.Equal(Instant(math.MinInt64), Instant(math.MinInt64+10).Add(-time.Hour))
	a.Equal(Instant(math.MaxInt64), After(math.MaxInt64))
	a.Equal(Instant(5), Instant(10).Add(-5))
}

func TestFarDeadlines(t *testing.T) {
	a := assert.New(t)
	far := time.Date(2300, 1, 1, 0, 0, 0, 7, time.UTC)
	_, ts := Realtime(far).timespec()
	a.EqualValues(far.Unix(), ts.Sec)
	a.EqualValues(7, ts.Nsec)
	_, ts = After(math.MaxInt64).timespec()
	a.True(ts.Sec > 0)

	f := New[Private](5)
	a.True(errors.Is(f.WaitUntil(7, Realtime(far)), ErrWrongValue))
	a.True(errors.Is(f.WaitUntil(7, After(math.MaxInt64)), ErrWrongValue))
	a.True(errors.Is(f.WaitBitsetUntil(7, 1, Instant(math.MaxInt64)), ErrWrongValue))
}
