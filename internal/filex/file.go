// Package filex manages the client's local output directories.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName under the working directory if needed and
// returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// CreateInSubdDir creates (or truncates) fileName inside dirName, making the
// directory first. Only the base name of fileName is used.
func CreateInSubdDir(dirName, fileName string) (*os.File, error) {
	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(fileName)
	if base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file name %q", fileName)
	}
	f, err := os.OpenFile(filepath.Join(dir, base), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o660)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", base, err)
	}
	return f, nil
}
