// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/nxgtw/go-futex/internal/common"
	"github.com/nxgtw/go-futex/internal/sys"
)

// Requeue wakes up to nWake waiters, and moves up to nRequeue of the remaining
// waiters to wait on to. It returns the number of woken and requeued waiters.
func (f *Futex[S]) Requeue(nWake int32, to *Futex[S], nRequeue int32) int {
	return mustCount(f.call(sys.Requeue).
		Val(uint32(nWake)).
		Val2(uint32(nRequeue)).
		Addr2(unsafe.Pointer(&to.Value)).
		Invoke())
}

// CmpRequeue is Requeue, which is performed only if f's value equals expected.
// Otherwise it returns ErrWrongValue, wrapped into WrongValueError.
func (f *Futex[S]) CmpRequeue(expected int32, nWake int32, to *Futex[S], nRequeue int32) (int, error) {
	n, err := f.call(sys.CmpRequeue).
		Val(uint32(nWake)).
		Val2(uint32(nRequeue)).
		Addr2(unsafe.Pointer(&to.Value)).
		Val3(uint32(expected)).
		Invoke()
	if err == nil {
		return n, nil
	}
	if common.SyscallErrno(err) == unix.EAGAIN {
		return 0, WrongValueError{outcome{ErrWrongValue}}
	}
	panic(unexpected(err))
}

// CmpRequeuePI wakes one waiter blocked in WaitRequeuePI, acquiring to on its behalf,
// and requeues up to nRequeue other waiters to wait on to.
// Waiters must use the same to in their WaitRequeuePI calls.
// It returns the number of woken and requeued waiters.
//
// If f's value is not expected, or the lock could not be taken because of a race,
// it returns ErrTryAgain, wrapped into TryAgainError.
func (f *Futex[S]) CmpRequeuePI(expected int32, to *PIFutex[S], nRequeue int32) (int, error) {
	n, err := f.call(sys.CmpRequeuePI).
		Val(1).
		Val2(uint32(nRequeue)).
		Addr2(unsafe.Pointer(&to.Value)).
		Val3(uint32(expected)).
		Invoke()
	if err == nil {
		return n, nil
	}
	if common.SyscallErrno(err) == unix.EAGAIN {
		return 0, TryAgainError{outcome{ErrTryAgain}}
	}
	panic(unexpected(err))
}

// WaitRequeuePI waits on f, until CmpRequeuePI requeues the caller to the PI futex to,
// and the lock on to is acquired. The calling goroutine must be locked to its OS thread.
// Such a waiter can only be released by CmpRequeuePI: Wake and WakeBitset
// panic with EINVAL, if they find it.
//
// If the value of f is not expected, or the waiter is woken before it is requeued,
// it returns ErrTryAgain, wrapped into RequeuePIError.
func (f *Futex[S]) WaitRequeuePI(expected int32, to *PIFutex[S]) error {
	_, err := f.call(sys.WaitRequeuePI).
		Val(uint32(expected)).
		Addr2(unsafe.Pointer(&to.Value)).
		Invoke()
	if err == nil {
		return nil
	}
	if common.SyscallErrno(err) == unix.EAGAIN {
		return RequeuePIError{outcome{ErrTryAgain}}
	}
	panic(unexpected(err))
}

// WaitRequeuePIUntil is WaitRequeuePI with a deadline.
// A non-nil result is a TimedRequeuePIError.
func (f *Futex[S]) WaitRequeuePIUntil(expected int32, to *PIFutex[S], deadline Deadline) error {
	clock, ts := deadline.timespec()
	_, err := f.call(sys.WaitRequeuePI | clock).
		Val(uint32(expected)).
		Timeout(&ts).
		Addr2(unsafe.Pointer(&to.Value)).
		Invoke()
	if err == nil {
		return nil
	}
	switch common.SyscallErrno(err) {
	case unix.EAGAIN:
		return TimedRequeuePIError{outcome{ErrTryAgain}}
	case unix.ETIMEDOUT:
		return TimedRequeuePIError{outcome{ErrTimedOut}}
	}
	panic(unexpected(err))
}
