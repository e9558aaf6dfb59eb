// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/nxgtw/go-futex/internal/sys"
)

// Deadline is an absolute point in time, either an Instant or a Realtime.
type Deadline interface {
	// timespec returns the clock flag for the operation code and the absolute time.
	timespec() (sys.Op, unix.Timespec)
}

// Instant is a point in time on the monotonic clock (CLOCK_MONOTONIC),
// measured from the clock's epoch.
type Instant time.Duration

// Now returns the current monotonic time.
func Now() Instant {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(errors.Wrap(err, "clock_gettime failed"))
	}
	return Instant(timespecToDuration(ts))
}

// After returns the monotonic time d from now.
func After(d time.Duration) Instant {
	return Now().Add(d)
}

// Add returns i+d, saturated at the limits of Instant.
func (i Instant) Add(d time.Duration) Instant {
	sum := i + Instant(d)
	switch {
	case d > 0 && sum < i:
		return math.MaxInt64
	case d < 0 && sum > i:
		return math.MinInt64
	}
	return sum
}

// Sub returns i-j.
func (i Instant) Sub(j Instant) time.Duration {
	return time.Duration(i - j)
}

// Until returns the duration until i.
func (i Instant) Until() time.Duration {
	return i.Sub(Now())
}

func (i Instant) timespec() (sys.Op, unix.Timespec) {
	if i < 0 {
		panic("futex: negative monotonic time")
	}
	return 0, durationToTimespec(time.Duration(i))
}

// Realtime is a point in time on the real time clock (CLOCK_REALTIME).
// It follows changes of the system time. Times before the unix epoch cause a panic,
// as do times after 2038 on 32-bit platforms.
type Realtime time.Time

var unixEpoch = time.Unix(0, 0)

func (r Realtime) timespec() (sys.Op, unix.Timespec) {
	t := time.Time(r)
	if t.Before(unixEpoch) {
		panic("futex: real time deadline is before the unix epoch")
	}
	ts, err := unix.TimeToTimespec(t)
	if err != nil {
		panic(errors.Wrap(err, "real time deadline does not fit into timespec"))
	}
	return sys.ClockRealtime, ts
}

// durationToTimespec converts a relative timeout. Negative durations mean 'already expired'.
func durationToTimespec(d time.Duration) unix.Timespec {
	if d < 0 {
		d = 0
	}
	return unix.NsecToTimespec(d.Nanoseconds())
}

func timespecToDuration(ts unix.Timespec) time.Duration {
	return time.Duration(ts.Nano())
}
