package stubs

import (
	"fmt"
	"io"
	"os"
)

const stubFilePerms = 0644

// Copy duplicates a stub catalog file to the destination path, replacing any
// existing file
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open stub failed: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stubFilePerms)
	if err != nil {
		return fmt.Errorf("create stub copy failed: %w", err)
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy stub content failed: %w", err)
	}
	return out.Close()
}

// FileSize returns a size of a file in bytes, or -1 if it does not exist or
// is not a regular file
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return -1
	}
	return info.Size()
}

// FileExists reports whether a regular file is present at the path
func FileExists(path string) bool {
	return FileSize(path) >= 0
}
