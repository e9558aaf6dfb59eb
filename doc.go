// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package futex exposes the linux futex(2) operations on 32-bit memory words.
//
// Futex and PIFutex are plain atomic.Int32 values with the scope (Private or Shared)
// attached as a type parameter. Every operation is one system call. Errors the kernel
// documents for an operation are returned as typed values wrapping
// ErrWrongValue, ErrInterrupted, ErrTimedOut or ErrTryAgain. Any other error means
// the futex was misused, and the call panics.
//
// Nothing is retried here: spurious wakeups, timeouts and races are reported
// to the caller, which decides what to do next.
package futex
