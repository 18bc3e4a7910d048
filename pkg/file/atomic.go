// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
)

// AtomicCreateFile creates a file atomically by first writing to a temporary file
// and then renaming it to the desired filename.
func AtomicCreateFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmpfile, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp.*", filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemporaryFileCreation, err)
	}
	tmpname := tmpfile.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpname)
		}
	}()

	if _, err = tmpfile.Write(data); err != nil {
		_ = tmpfile.Close()
		return fmt.Errorf("%w: %w", ErrTemporaryFileWrite, err)
	}

	if err := tmpfile.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrTemporaryFileClose, err)
	}

	if err := os.Chmod(tmpname, perm); err != nil {
		return fmt.Errorf("%w: %w", ErrTemporaryFileChmod, err)
	}

	if err = unix.Renameat2(unix.AT_FDCWD, tmpname, unix.AT_FDCWD, filename, unix.RENAME_NOREPLACE); err != nil {
		if errors.Is(err, syscall.EEXIST) {
			return fmt.Errorf("%w: %s: %w", ErrFileAlreadyExists, filename, err)
		}
		return fmt.Errorf("%w: %w", ErrAtomicRename, err)
	}

	return nil
}

// AtomicUpdateFile replaces a file's entire contents atomically: it
// writes data to a sibling temporary file, then renames that file over
// filename. The rename is what makes this safe against a crash
// mid-write — readers only ever see either the old content or the new
// content, never a partial one. Unlike AtomicCreateFile this succeeds
// when filename already exists, which is the common case for rewriting
// a config file after calibration.
func AtomicUpdateFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmpfile, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp.*", filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemporaryFileCreation, err)
	}
	tmpname := tmpfile.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpname)
		}
	}()

	if _, err = tmpfile.Write(data); err != nil {
		_ = tmpfile.Close()
		return fmt.Errorf("%w: %w", ErrTemporaryFileWrite, err)
	}

	if err := tmpfile.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrTemporaryFileClose, err)
	}

	if err = os.Chmod(tmpname, perm); err != nil {
		return fmt.Errorf("%w: %w", ErrTemporaryFileChmod, err)
	}

	if err = os.Rename(tmpname, filename); err != nil {
		return fmt.Errorf("%w: %w", ErrAtomicRename, err)
	}

	return nil
}
