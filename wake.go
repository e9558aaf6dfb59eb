// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import (
	"unsafe"

	"github.com/nxgtw/go-futex/internal/sys"
	"github.com/nxgtw/go-futex/op"
)

// Wake wakes up to n waiters and returns the number of woken ones.
func (f *Futex[S]) Wake(n int32) int {
	return mustCount(f.call(sys.Wake).Val(uint32(n)).Invoke())
}

// WakeBitset wakes up to n waiters, whose bitset intersects with bitset.
// Waiters blocked in Wait match any bitset. bitset must not be 0.
func (f *Futex[S]) WakeBitset(n int32, bitset uint32) int {
	return mustCount(f.call(sys.WakeBitset).Val(uint32(n)).Val3(bitset).Invoke())
}

// WakeOp atomically:
//	- applies oc's operation to second, remembering its old value;
//	- wakes up to n waiters on f;
//	- wakes up to n2 waiters on second, if the old value satisfies oc's comparison.
// It returns the total number of woken waiters on both futexes.
func (f *Futex[S]) WakeOp(n int32, second *Futex[S], oc op.OpAndCmp, n2 int32) int {
	return mustCount(f.call(sys.WakeOp).
		Val(uint32(n)).
		Val2(uint32(n2)).
		Addr2(unsafe.Pointer(&second.Value)).
		Val3(oc.RawBits()).
		Invoke())
}

func mustCount(n int, err error) int {
	if err != nil {
		panic(unexpected(err))
	}
	return n
}
