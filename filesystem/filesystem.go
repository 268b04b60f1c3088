// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// It utilizes the afero library to allow switching between OS-level and in-memory backends.
package filesystem

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend, used by tests.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// MoveAside renames path to "<path>.<tag>.<unix seconds>" and returns the new name.
// Missing files are not an error; the returned name is empty in that case.
func MoveAside(path, tag string, now time.Time) (string, error) {
	exists, err := backend.Exists(path)
	if err != nil || !exists {
		return "", err
	}

	target := fmt.Sprintf("%s.%s.%d", path, tag, now.Unix())
	if err := backend.Rename(path, target); err != nil {
		return "", fmt.Errorf("move %s aside: %w", path, err)
	}

	return target, nil
}
