// Copyright 2016 Aleksandr Demakin. All rights reserved.

package common

import (
	"os"
	"syscall"
)

// SyscallErrno returns the errno carried by an *os.SyscallError, or 0.
func SyscallErrno(err error) syscall.Errno {
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno
		}
	}
	return 0
}
