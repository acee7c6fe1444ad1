package input

import (
	"os"

	"golang.org/x/sys/unix"
)

func init() {
	// Lines are consumed front to back exactly once.
	ReadOptimizations = append(ReadOptimizations, FileHandleOptimization{
		"POSIX_FADV_SEQUENTIAL",
		func(file *os.File, stat os.FileInfo) error {
			if !stat.Mode().IsRegular() {
				return os.ErrInvalid
			}
			return unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
		},
	})

	// Grow a pipe on stdin, trying smaller powers of two from 1MiB down.
	// Opportunistic: the limit depends on system tuning.
	ReadOptimizations = append(ReadOptimizations, FileHandleOptimization{
		"F_SETPIPE_SZ",
		func(file *os.File, stat os.FileInfo) (err error) {
			if stat.Mode()&os.ModeNamedPipe == 0 {
				return os.ErrInvalid
			}
			for size := 1 << 20; size > 4096; size /= 2 {
				if _, err = unix.FcntlInt(file.Fd(), unix.F_SETPIPE_SZ, size); err == nil {
					return nil
				}
			}
			return err
		},
	})
}
