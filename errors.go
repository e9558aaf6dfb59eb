// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"github.com/pkg/errors"
)

var (
	// ErrWrongValue means the futex value did not match the expected value.
	ErrWrongValue = errors.New("futex value does not match the expected value")
	// ErrInterrupted means the wait was interrupted by a signal.
	ErrInterrupted = errors.New("futex wait was interrupted")
	// ErrTimedOut means the deadline expired before the operation completed.
	ErrTimedOut = errors.New("futex operation timed out")
	// ErrTryAgain means a priority inheritance protocol step raced with another thread
	// and must be started over.
	ErrTryAgain = errors.New("futex operation must be retried")
)

type outcome struct {
	err error
}

func (o outcome) Error() string {
	return o.err.Error()
}

func (o outcome) Unwrap() error {
	return o.err
}

// WaitError is returned by Wait and WaitBitset.
// It wraps ErrWrongValue or ErrInterrupted.
type WaitError struct{ outcome }

// TimedWaitError is returned by WaitFor, WaitUntil and WaitBitsetUntil.
// It wraps ErrWrongValue, ErrInterrupted or ErrTimedOut.
type TimedWaitError struct{ outcome }

// WrongValueError is returned by CmpRequeue. It wraps ErrWrongValue.
type WrongValueError struct{ outcome }

// TryAgainError is returned by LockPI, TrylockPI and CmpRequeuePI. It wraps ErrTryAgain.
type TryAgainError struct{ outcome }

// TimedLockError is returned by LockPIUntil. It wraps ErrTryAgain or ErrTimedOut.
type TimedLockError struct{ outcome }

// RequeuePIError is returned by WaitRequeuePI. It wraps ErrTryAgain.
type RequeuePIError struct{ outcome }

// TimedRequeuePIError is returned by WaitRequeuePIUntil. It wraps ErrTryAgain or ErrTimedOut.
type TimedRequeuePIError struct{ outcome }

// unexpected wraps an error the kernel is not documented to return for the call.
// Such an error means a wrong address, mismatched scopes, or a broken PI futex value,
// and the caller panics with it.
func unexpected(err error) error {
	return errors.Wrap(err, "unexpected futex error")
}
