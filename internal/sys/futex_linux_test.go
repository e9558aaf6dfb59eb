// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sys

import (
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestOpString(t *testing.T) {
	a := assert.New(t)
	a.Equal("FUTEX_WAIT", Wait.String())
	a.Equal("FUTEX_WAKE|FUTEX_PRIVATE_FLAG", (Wake | PrivateFlag).String())
	a.Equal("FUTEX_WAIT_BITSET|FUTEX_CLOCK_REALTIME|FUTEX_PRIVATE_FLAG", (WaitBitset | ClockRealtime | PrivateFlag).String())
	a.Equal("FUTEX_LOCK_PI2", LockPI2.String())
	a.Equal("FUTEX_UNKNOWN", Op(2).String())
	a.Equal(CmpRequeuePI, (CmpRequeuePI | PrivateFlag | ClockRealtime).Cmd())
}

func TestCallSlot4(t *testing.T) {
	a := assert.New(t)
	var ts unix.Timespec
	a.Panics(func() {
		NewCall(Requeue).Val2(1).Timeout(&ts)
	})
	a.Panics(func() {
		NewCall(Wait).Timeout(&ts).Val2(1)
	})
	a.NotPanics(func() {
		NewCall(Wait).Timeout(nil).Val2(1)
	})
}

func TestInvokeWake(t *testing.T) {
	a := assert.New(t)
	var word int32
	n, err := NewCall(Wake | PrivateFlag).Addr(unsafe.Pointer(&word)).Val(1).Invoke()
	a.NoError(err)
	a.Equal(0, n)
}

func TestInvokeWaitWrongValue(t *testing.T) {
	a := assert.New(t)
	word := int32(5)
	ts := unix.NsecToTimespec(0)
	_, err := NewCall(Wait | PrivateFlag).
		Addr(unsafe.Pointer(&word)).
		Val(7).
		Timeout(&ts).
		Invoke()
	if !a.Error(err) {
		return
	}
	sysErr, ok := err.(*os.SyscallError)
	if !a.True(ok) {
		return
	}
	a.Equal(unix.EAGAIN, sysErr.Err)
	a.Equal("FUTEX_WAIT|FUTEX_PRIVATE_FLAG", sysErr.Syscall)
}

func TestInvokeWaitTimeout(t *testing.T) {
	a := assert.New(t)
	var word int32
	ts := unix.NsecToTimespec(1000)
	_, err := NewCall(Wait | PrivateFlag).Addr(unsafe.Pointer(&word)).Timeout(&ts).Invoke()
	if !a.Error(err) {
		return
	}
	a.Equal(unix.ETIMEDOUT, err.(*os.SyscallError).Err)
}
