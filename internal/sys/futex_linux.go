// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package sys wraps the linux futex(2) system call.
package sys

import (
	"os"
	"runtime"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Op is a futex operation code, optionally combined with PrivateFlag and ClockRealtime.
type Op int32

// base operations, see linux/futex.h
const (
	Wait          Op = 0
	Wake          Op = 1
	Requeue       Op = 3
	CmpRequeue    Op = 4
	WakeOp        Op = 5
	LockPI        Op = 6
	UnlockPI      Op = 7
	TrylockPI     Op = 8
	WaitBitset    Op = 9
	WakeBitset    Op = 10
	WaitRequeuePI Op = 11
	CmpRequeuePI  Op = 12
	LockPI2       Op = 13 // since linux 5.14

	PrivateFlag   Op = 128
	ClockRealtime Op = 256

	cmdMask = ^(PrivateFlag | ClockRealtime)
)

const (
	// BitsetMatchAny is a bitset matching any other bitset.
	BitsetMatchAny = 0xffffffff
)

var opNames = map[Op]string{
	Wait:          "FUTEX_WAIT",
	Wake:          "FUTEX_WAKE",
	Requeue:       "FUTEX_REQUEUE",
	CmpRequeue:    "FUTEX_CMP_REQUEUE",
	WakeOp:        "FUTEX_WAKE_OP",
	LockPI:        "FUTEX_LOCK_PI",
	UnlockPI:      "FUTEX_UNLOCK_PI",
	TrylockPI:     "FUTEX_TRYLOCK_PI",
	WaitBitset:    "FUTEX_WAIT_BITSET",
	WakeBitset:    "FUTEX_WAKE_BITSET",
	WaitRequeuePI: "FUTEX_WAIT_REQUEUE_PI",
	CmpRequeuePI:  "FUTEX_CMP_REQUEUE_PI",
	LockPI2:       "FUTEX_LOCK_PI2",
}

// Cmd returns the base operation without flags.
func (op Op) Cmd() Op {
	return op & cmdMask
}

// String returns a name like FUTEX_WAIT_BITSET|FUTEX_CLOCK_REALTIME|FUTEX_PRIVATE_FLAG.
func (op Op) String() string {
	name, ok := opNames[op.Cmd()]
	if !ok {
		name = "FUTEX_UNKNOWN"
	}
	parts := []string{name}
	if op&ClockRealtime != 0 {
		parts = append(parts, "FUTEX_CLOCK_REALTIME")
	}
	if op&PrivateFlag != 0 {
		parts = append(parts, "FUTEX_PRIVATE_FLAG")
	}
	return strings.Join(parts, "|")
}

// Call holds the arguments of a single futex syscall.
// The fourth argument of the syscall is either a timeout pointer or a plain integer,
// depending on the operation. At most one of Timeout and Val2 may be set.
type Call struct {
	op      Op
	addr    unsafe.Pointer
	val     uint32
	timeout *unix.Timespec
	val2    uint32
	hasVal2 bool
	addr2   unsafe.Pointer
	val3    uint32
}

// NewCall returns a call for the given operation with all other arguments zeroed.
func NewCall(op Op) Call {
	return Call{op: op}
}

// Op returns call's operation.
func (c Call) Op() Op {
	return c.op
}

// Addr sets the futex word address (uaddr).
func (c Call) Addr(addr unsafe.Pointer) Call {
	c.addr = addr
	return c
}

// Val sets the first value argument (val).
func (c Call) Val(val uint32) Call {
	c.val = val
	return c
}

// Timeout sets the timeout pointer.
func (c Call) Timeout(ts *unix.Timespec) Call {
	if c.hasVal2 {
		panic("futex: timeout and val2 share the same argument")
	}
	c.timeout = ts
	return c
}

// Val2 sets the integer, passed in place of the timeout pointer.
func (c Call) Val2(val2 uint32) Call {
	if c.timeout != nil {
		panic("futex: timeout and val2 share the same argument")
	}
	c.val2, c.hasVal2 = val2, true
	return c
}

// Addr2 sets the second futex word address (uaddr2).
func (c Call) Addr2(addr2 unsafe.Pointer) Call {
	c.addr2 = addr2
	return c
}

// Val3 sets the last argument: a bitset, an expected value or an encoded wake-op.
func (c Call) Val3(val3 uint32) Call {
	c.val3 = val3
	return c
}

// Invoke performs the syscall. It returns a non-negative result, or
// an *os.SyscallError with the raw errno, which is not interpreted here.
func (c Call) Invoke() (int, error) {
	var r1 uintptr
	var errno unix.Errno
	// pointers must be converted in the argument list, so that they stay valid during the call.
	if c.timeout != nil {
		r1, _, errno = unix.Syscall6(unix.SYS_FUTEX,
			uintptr(c.addr),
			uintptr(c.op),
			uintptr(c.val),
			uintptr(unsafe.Pointer(c.timeout)),
			uintptr(c.addr2),
			uintptr(c.val3))
	} else {
		r1, _, errno = unix.Syscall6(unix.SYS_FUTEX,
			uintptr(c.addr),
			uintptr(c.op),
			uintptr(c.val),
			uintptr(c.val2),
			uintptr(c.addr2),
			uintptr(c.val3))
	}
	runtime.KeepAlive(c.addr)
	runtime.KeepAlive(c.addr2)
	runtime.KeepAlive(c.timeout)
	if errno != 0 {
		return 0, os.NewSyscallError(c.op.String(), errno)
	}
	return int(int32(r1)), nil
}
