// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	maxNameLen       = 255
	defaultShmPath   = "/dev/shm/"
	cShmfsSuperMagic = 0x01021994
	cRamfsMagic      = 0x858458f6
)

var (
	shmPathOnce sync.Once
	shmPath     string
)

// glibc/sysdeps/posix/shm-directory.h
func shmName(name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if len(name) == 0 || len(name) >= maxNameLen || strings.Contains(name, "/") {
		return "", errors.Errorf("invalid shm name %q", name)
	}
	shmPathOnce.Do(locateShmFs)
	if len(shmPath) == 0 {
		return "", errors.New("error locating the shared memory path")
	}
	return shmPath + name, nil
}

// glibc/sysdeps/unix/sysv/linux/shm-directory.c
func locateShmFs() {
	if checkShmPath(defaultShmPath) {
		shmPath = defaultShmPath
		return
	}
	if mounts, err := os.Open("/proc/mounts"); err == nil {
		shmPath = shmFsFromReader(mounts)
		mounts.Close()
	}
}

func checkShmPath(path string) bool {
	var statfs unix.Statfs_t
	if len(path) == 0 || unix.Statfs(path, &statfs) != nil {
		return false
	}
	fsType := int64(statfs.Type)
	return fsType == cShmfsSuperMagic || fsType == cRamfsMagic
}

// shmFsFromReader returns the first tmpfs mount point from an fstab-formatted list.
func shmFsFromReader(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		dir, fstype := fields[1], fields[2]
		if (fstype == "tmpfs" || fstype == "shm") && checkShmPath(dir) {
			if !strings.HasSuffix(dir, "/") {
				dir += "/"
			}
			return dir
		}
	}
	return ""
}
