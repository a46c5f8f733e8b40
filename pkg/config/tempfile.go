package config

import (
	"fmt"
	"os"
)

// TempFilenamePrefix returns the filename prefix shared by every temp
// file the current process creates, so external cleanup can find stale
// files from a dead pid later.
func TempFilenamePrefix() string {
	return TempFilenamePrefixFor(os.Getpid())
}

func TempFilenamePrefixFor(pid int) string {
	return fmt.Sprintf("pid%d-", pid)
}
