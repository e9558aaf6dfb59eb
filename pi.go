// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"golang.org/x/sys/unix"

	"github.com/nxgtw/go-futex/internal/common"
	"github.com/nxgtw/go-futex/internal/sys"
)

// LockPI locks the futex, blocking while it is held by another thread.
// It returns ErrTryAgain, wrapped into TryAgainError, if the owner is exiting
// and the kernel has not finished cleaning up its state yet.
func (f *PIFutex[S]) LockPI() error {
	_, err := f.call(sys.LockPI).Invoke()
	return tryAgainResult(err)
}

// LockPIUntil is LockPI with a deadline.
// FUTEX_LOCK_PI measures its timeout on the real time clock only, so an Instant deadline
// is passed to FUTEX_LOCK_PI2, which requires linux 5.14 or newer.
// A non-nil result is a TimedLockError.
func (f *PIFutex[S]) LockPIUntil(deadline Deadline) error {
	clock, ts := deadline.timespec()
	cmd := sys.LockPI2
	if clock == sys.ClockRealtime {
		cmd = sys.LockPI
	}
	_, err := f.call(cmd).Timeout(&ts).Invoke()
	if err == nil {
		return nil
	}
	switch common.SyscallErrno(err) {
	case unix.EAGAIN:
		return TimedLockError{outcome{ErrTryAgain}}
	case unix.ETIMEDOUT:
		return TimedLockError{outcome{ErrTimedOut}}
	}
	panic(unexpected(err))
}

// TrylockPI makes one attempt to lock the futex without blocking.
// It returns ErrTryAgain, wrapped into TryAgainError, if the futex is held by another thread.
func (f *PIFutex[S]) TrylockPI() error {
	_, err := f.call(sys.TrylockPI).Invoke()
	return tryAgainResult(err)
}

// UnlockPI unlocks the futex, handing it over to the top waiter, if any.
// The caller must be the owner.
func (f *PIFutex[S]) UnlockPI() {
	if _, err := f.call(sys.UnlockPI).Invoke(); err != nil {
		panic(unexpected(err))
	}
}

func tryAgainResult(err error) error {
	if err == nil {
		return nil
	}
	if common.SyscallErrno(err) == unix.EAGAIN {
		return TryAgainError{outcome{ErrTryAgain}}
	}
	panic(unexpected(err))
}
