// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/nxgtw/go-futex/internal/common"
	"github.com/nxgtw/go-futex/internal/sys"
)

// Wait blocks until the futex is woken by Wake, WakeBitset, WakeOp or a requeue.
// The thread goes to sleep only if the futex value equals expected at the moment
// the kernel checks it, otherwise Wait returns ErrWrongValue at once.
//
// A nil result may still be a spurious wakeup, the caller must recheck its condition.
// A non-nil result is a WaitError.
func (f *Futex[S]) Wait(expected int32) error {
	_, err := f.call(sys.Wait).Val(uint32(expected)).Invoke()
	return waitResult(err)
}

// WaitFor is Wait, which returns ErrTimedOut after the timeout elapses.
// The timeout is measured on the monotonic clock.
// A non-nil result is a TimedWaitError.
func (f *Futex[S]) WaitFor(expected int32, timeout time.Duration) error {
	ts := durationToTimespec(timeout)
	_, err := f.call(sys.Wait).Val(uint32(expected)).Timeout(&ts).Invoke()
	return timedWaitResult(err)
}

// WaitUntil is Wait, which returns ErrTimedOut when the deadline is reached.
// A non-nil result is a TimedWaitError.
func (f *Futex[S]) WaitUntil(expected int32, deadline Deadline) error {
	return f.WaitBitsetUntil(expected, BitsetMatchAny, deadline)
}

// WaitBitset is Wait, which is woken only by the wake calls whose bitset intersects with bitset.
// Wake matches any bitset. bitset must not be 0.
// A non-nil result is a WaitError.
func (f *Futex[S]) WaitBitset(expected int32, bitset uint32) error {
	_, err := f.call(sys.WaitBitset).Val(uint32(expected)).Val3(bitset).Invoke()
	return waitResult(err)
}

// WaitBitsetUntil is WaitBitset with a deadline.
// A non-nil result is a TimedWaitError.
func (f *Futex[S]) WaitBitsetUntil(expected int32, bitset uint32, deadline Deadline) error {
	clock, ts := deadline.timespec()
	_, err := f.call(sys.WaitBitset | clock).
		Val(uint32(expected)).
		Timeout(&ts).
		Val3(bitset).
		Invoke()
	return timedWaitResult(err)
}

func waitResult(err error) error {
	if err == nil {
		return nil
	}
	switch common.SyscallErrno(err) {
	case unix.EAGAIN:
		return WaitError{outcome{ErrWrongValue}}
	case unix.EINTR:
		return WaitError{outcome{ErrInterrupted}}
	}
	panic(unexpected(err))
}

func timedWaitResult(err error) error {
	if err == nil {
		return nil
	}
	switch common.SyscallErrno(err) {
	case unix.EAGAIN:
		return TimedWaitError{outcome{ErrWrongValue}}
	case unix.EINTR:
		return TimedWaitError{outcome{ErrInterrupted}}
	case unix.ETIMEDOUT:
		return TimedWaitError{outcome{ErrTimedOut}}
	}
	panic(unexpected(err))
}
