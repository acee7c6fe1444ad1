package input

import (
	"os"

	"golang.org/x/sys/unix"
)

func init() {
	ReadOptimizations = append(ReadOptimizations, FileHandleOptimization{
		"F_RDAHEAD",
		func(file *os.File, stat os.FileInfo) error {
			if !stat.Mode().IsRegular() {
				return os.ErrInvalid
			}
			_, err := unix.FcntlInt(file.Fd(), unix.F_RDAHEAD, 1)
			return err
		},
	})
}
