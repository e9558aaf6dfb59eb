// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package shm provides shared memory regions, which hold futex words.
// A named region can be opened by several processes, and the words it holds
// can be used as futex.Futex[futex.Shared] or futex.PIFutex[futex.Shared].
package shm

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const cellSize = int(unsafe.Sizeof(int32(0)))

// Region is a shared memory mapping divided into 32-bit cells.
// Cells stay at the same address until the region is closed.
type Region struct {
	data []byte
	path string
}

// Create opens or creates a named region of the given size in bytes.
//	name - region name, without slashes.
//	flag - a combination of os.O_CREATE and os.O_EXCL, or 0 to open an existing region.
//	perm - object's permission bits.
// If the object already exists and is smaller than size, it is extended.
// New space is zero-filled. If the object was created by this call, it is removed on failure.
func Create(name string, flag int, perm os.FileMode, size int) (region *Region, resultErr error) {
	if flag&^(os.O_CREATE|os.O_EXCL) != 0 {
		return nil, errors.New("invalid open flags")
	}
	if err := checkSize(size); err != nil {
		return nil, err
	}
	path, err := shmName(name)
	if err != nil {
		return nil, err
	}
	file, created, err := openOrCreate(path, flag, perm)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open shm object")
	}
	defer func() {
		file.Close()
		if resultErr != nil && created {
			os.Remove(path)
		}
	}()
	info, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat shm object")
	}
	if info.Size() < int64(size) {
		if err = file.Truncate(int64(size)); err != nil {
			return nil, errors.Wrap(err, "failed to resize shm object")
		}
	}
	return mapFile(file, path, size)
}

// openOrCreate opens the object, and reports whether it was created by this call.
// With os.O_CREATE alone it makes an exclusive attempt first.
func openOrCreate(path string, flag int, perm os.FileMode) (*os.File, bool, error) {
	switch {
	case flag&os.O_CREATE == 0:
		file, err := os.OpenFile(path, os.O_RDWR, perm)
		return file, false, err
	case flag&os.O_EXCL != 0:
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		return file, err == nil, err
	}
	for {
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return file, true, nil
		}
		if !os.IsExist(err) {
			return nil, false, err
		}
		// the object exists, unless it was removed in between.
		if file, err = os.OpenFile(path, os.O_RDWR, perm); !os.IsNotExist(err) {
			return file, false, err
		}
	}
}

// Open maps an existing named region entirely.
func Open(name string) (*Region, error) {
	path, err := shmName(name)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open shm object")
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat shm object")
	}
	size := int(info.Size())
	if err = checkSize(size); err != nil {
		return nil, errors.Wrap(err, "existing object has invalid size")
	}
	return mapFile(file, path, size)
}

// Anonymous returns a region, which is not backed by a named object.
func Anonymous(size int) (*Region, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.Wrap(err, "mmap failed")
	}
	return &Region{data: data}, nil
}

// Destroy removes a named region. Existing mappings stay valid.
func Destroy(name string) error {
	path, err := shmName(name)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove shm object")
	}
	return nil
}

func mapFile(file *os.File, path string, size int) (*Region, error) {
	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "mmap failed")
	}
	return &Region{data: data, path: path}, nil
}

func checkSize(size int) error {
	if size <= 0 || size%cellSize != 0 {
		return errors.Errorf("invalid region size %d", size)
	}
	return nil
}

// Len returns the number of cells in the region.
func (r *Region) Len() int {
	return len(r.data) / cellSize
}

// Pointer returns the address of the i-th cell.
func (r *Region) Pointer(i int) unsafe.Pointer {
	if i < 0 || i >= r.Len() {
		panic(fmt.Sprintf("cell index %d is out of range [0, %d)", i, r.Len()))
	}
	return unsafe.Pointer(&r.data[i*cellSize])
}

// Cell returns the i-th cell.
func (r *Region) Cell(i int) *atomic.Int32 {
	return (*atomic.Int32)(r.Pointer(i))
}

// Close unmaps the region. Cells must not be used after that.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return errors.Wrap(err, "munmap failed")
}

// Destroy unmaps the region and removes its named object, if any.
func (r *Region) Destroy() error {
	if err := r.Close(); err != nil {
		return err
	}
	if r.path == "" {
		return nil
	}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove shm object")
	}
	return nil
}
