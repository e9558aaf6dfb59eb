// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/nxgtw/go-futex/internal/sys"
)

const (
	// WakeAll can be passed as a count to wake or requeue all the waiters.
	WakeAll = math.MaxInt32
	// BitsetMatchAny matches any waiter in WakeBitset, and any waker in WaitBitset.
	BitsetMatchAny = uint32(sys.BitsetMatchAny)
)

// Futex is a 32-bit word, which threads can wait on and wake each other through.
// Its value has no meaning for the kernel.
//
// A Futex has the same layout as atomic.Int32, and must not be copied after first use.
// Futex[Private] may be used only within one process, Futex[Shared] may live
// in memory mapped by several processes.
type Futex[S Scope] struct {
	_     [0]S
	Value atomic.Int32
}

// New returns a futex with the given initial value.
func New[S Scope](value int32) *Futex[S] {
	f := new(Futex[S])
	f.Value.Store(value)
	return f
}

// As returns v viewed as a futex.
func As[S Scope](v *atomic.Int32) *Futex[S] {
	return (*Futex[S])(unsafe.Pointer(v))
}

// FromPointer returns a futex placed at ptr, for example in a shared memory region.
// ptr must be 4-byte aligned and stay valid while the futex is in use.
func FromPointer[S Scope](ptr unsafe.Pointer) *Futex[S] {
	return (*Futex[S])(ptr)
}

func (f *Futex[S]) call(cmd sys.Op) sys.Call {
	return sys.NewCall(cmd | scopeFlag[S]()).Addr(unsafe.Pointer(&f.Value))
}

// PIFutex is a futex word used for priority inheriting locks.
// Its value is interpreted by the kernel: 0 means unlocked, otherwise
// the lower 30 bits hold the owner's thread id, PIWaiters is set if there are blocked
// threads, and PIOwnerDied is set if the owner has exited without unlocking.
//
// The kernel tracks the owner by its OS thread id, so a goroutine must call
// runtime.LockOSThread before locking, and stay locked until it unlocks.
type PIFutex[S Scope] struct {
	_     [0]S
	Value atomic.Int32
}

// bits of a PIFutex value, see FUTEX_WAITERS, FUTEX_OWNER_DIED, FUTEX_TID_MASK.
const (
	PIWaiters   = uint32(1 << 31)
	PIOwnerDied = uint32(1 << 30)
	PITIDMask   = uint32(1<<30 - 1)
)

// NewPI returns an unlocked PIFutex.
func NewPI[S Scope]() *PIFutex[S] {
	return new(PIFutex[S])
}

// AsPI returns v viewed as a PIFutex.
func AsPI[S Scope](v *atomic.Int32) *PIFutex[S] {
	return (*PIFutex[S])(unsafe.Pointer(v))
}

// PIFromPointer returns a PIFutex placed at ptr. See FromPointer.
func PIFromPointer[S Scope](ptr unsafe.Pointer) *PIFutex[S] {
	return (*PIFutex[S])(ptr)
}

// Owner returns the thread id of the current owner, or 0, if the futex is unlocked.
func (f *PIFutex[S]) Owner() int {
	return int(uint32(f.Value.Load()) & PITIDMask)
}

// HasWaiters returns true, if the kernel has marked the futex as having waiters.
func (f *PIFutex[S]) HasWaiters() bool {
	return uint32(f.Value.Load())&PIWaiters != 0
}

// OwnerDied returns true, if the previous owner exited while holding the lock.
func (f *PIFutex[S]) OwnerDied() bool {
	return uint32(f.Value.Load())&PIOwnerDied != 0
}

func (f *PIFutex[S]) call(cmd sys.Op) sys.Call {
	return sys.NewCall(cmd | scopeFlag[S]()).Addr(unsafe.Pointer(&f.Value))
}
