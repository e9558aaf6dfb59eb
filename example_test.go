// Copyright 2016 Aleksandr Demakin. All rights reserved.

package futex_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/nxgtw/go-futex"
	"github.com/nxgtw/go-futex/op"
)

const (
	unlocked = iota
	locked
	contended
)

// mutex is a three-state lock on a single futex word.
type mutex struct {
	f futex.Futex[futex.Private]
}

func (m *mutex) lock() {
	if m.f.Value.CompareAndSwap(unlocked, locked) {
		return
	}
	for m.f.Value.Swap(contended) != unlocked {
		// a wrong value or a signal just means the state has to be checked again.
		m.f.Wait(contended)
	}
}

func (m *mutex) unlock() {
	if m.f.Value.Swap(unlocked) == contended {
		m.f.Wake(1)
	}
}

func Example() {
	var m mutex
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.lock()
				counter++
				m.unlock()
			}
		}()
	}
	wg.Wait()
	fmt.Println(counter)
	// Output: 8000
}

func ExampleFutex_WakeOp() {
	var ready, flag futex.Futex[futex.Private]
	done := make(chan struct{})
	go func() {
		defer close(done)
		for flag.Value.Load() == 0 {
			flag.Wait(0)
		}
	}()
	time.Sleep(time.Millisecond * 50)
	// set flag to 1, waking its waiter only if it was 0 before.
	ready.WakeOp(0, &flag, op.Assign(1).With(op.Eq(0)), 1)
	<-done
	fmt.Println(flag.Value.Load())
	// Output: 1
}
