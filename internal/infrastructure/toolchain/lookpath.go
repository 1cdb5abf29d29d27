package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the toolchain binary is not on PATH.
var ErrNotFound = errors.New("executable file not found in PATH")

// lookPath resolves binary against the given PATH value and working
// directory. exec.LookPath consults the parent process's PATH, which is not
// the environment the toolchain runs in.
func lookPath(binary, pathEnv, dir string) (string, error) {
	if strings.ContainsRune(binary, os.PathSeparator) || strings.Contains(binary, "/") {
		path := binary
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		if err := checkExecutable(path); err != nil {
			return "", fmt.Errorf("toolchain binary %s: %w", binary, err)
		}
		return path, nil
	}

	for _, d := range filepath.SplitList(pathEnv) {
		if d == "" {
			d = "."
		}
		if !filepath.IsAbs(d) && dir != "" {
			d = filepath.Join(dir, d)
		}
		path := filepath.Join(d, binary)
		if checkExecutable(path) == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("toolchain binary %q: %w", binary, ErrNotFound)
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
