// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux
// +build linux

package futex

import "github.com/nxgtw/go-futex/internal/sys"

// Private marks a futex, which is used from a single process only.
// The kernel takes a faster path for such futexes.
type Private struct{}

// Shared marks a futex, which may be mapped into several processes.
type Shared struct{}

func (Private) futexFlag() sys.Op { return sys.PrivateFlag }

func (Shared) futexFlag() sys.Op { return 0 }

// Scope is either Private or Shared.
// All the calls on the same futex word must use the same scope,
// otherwise wakers do not find the waiters.
type Scope interface {
	Private | Shared
	futexFlag() sys.Op
}

func scopeFlag[S Scope]() sys.Op {
	var s S
	return s.futexFlag()
}
