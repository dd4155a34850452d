//go:build !unix

package csvlog

import "os"

// Without flock only the in-process mutex serializes writers.
func lockFile(f *os.File) error { return nil }

func unlockFile(f *os.File) error { return nil }
