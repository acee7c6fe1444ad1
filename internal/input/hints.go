package input

import "os"

// FileHandleOptimization is an OS-specific read-ahead hint. Action returns
// os.ErrInvalid when the hint does not apply to the file's type.
type FileHandleOptimization struct {
	Name   string
	Action func(file *os.File, stat os.FileInfo) error
}

// ReadOptimizations is populated by the OS-specific init functions.
var ReadOptimizations []FileHandleOptimization
