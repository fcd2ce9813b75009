// Package pathutil provides path validation utilities.
package pathutil

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	fverrors "github.com/javi11/flashverify/internal/errors"
)

const writeTestName = ".flashverify-write-test"

// CheckDirectory checks that path exists and is a directory.
func CheckDirectory(fs afero.Fs, path string) error {
	if path == "" {
		return fverrors.NewInvalidInput("path cannot be empty", nil)
	}

	info, err := fs.Stat(path)
	if err != nil {
		return fverrors.NewInvalidInput(fmt.Sprintf("cannot access directory %s", path), err)
	}
	if !info.IsDir() {
		return fverrors.NewInvalidInput(fmt.Sprintf("path %s exists but is not a directory", path), nil)
	}

	return nil
}

// CheckDirectoryWritable checks that a directory exists and accepts a new file.
func CheckDirectoryWritable(fs afero.Fs, path string) error {
	if err := CheckDirectory(fs, path); err != nil {
		return err
	}

	// Test write permissions by creating a temporary file
	testFile := filepath.Join(path, writeTestName)
	file, err := fs.Create(testFile)
	if err != nil {
		return fverrors.NewIOFailure("directory "+path+" is not writable", -1, err)
	}

	_, writeErr := file.Write([]byte("test"))
	closeErr := file.Close()

	// Clean up test file
	_ = fs.Remove(testFile)

	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fverrors.NewIOFailure("directory "+path+" is not writable", -1, writeErr)
	}

	return nil
}

// CheckFileDirectoryWritable checks if the directory containing a file path is writable.
func CheckFileDirectoryWritable(fs afero.Fs, filePath string, fileType string) error {
	if filePath == "" {
		return nil // Empty path is valid for optional files (like the log file)
	}

	dir := filepath.Dir(filePath)
	if dir == "" {
		dir = "."
	}

	if err := CheckDirectoryWritable(fs, dir); err != nil {
		return fmt.Errorf("%s file directory check failed: %w", fileType, err)
	}

	return nil
}

// ResolveTestFile turns a user supplied target into the test file path.
// An existing directory gets defaultName appended; anything else is taken as
// a file path whose parent directory must exist.
func ResolveTestFile(fs afero.Fs, target, defaultName string) (string, error) {
	if target == "" {
		return "", fverrors.NewInvalidInput("target path cannot be empty", nil)
	}

	target = filepath.Clean(target)
	if info, err := fs.Stat(target); err == nil && info.IsDir() {
		if defaultName == "" {
			return "", fverrors.NewInvalidInput("no file name given for directory "+target, nil)
		}
		return filepath.Join(target, defaultName), nil
	}

	if err := CheckDirectory(fs, filepath.Dir(target)); err != nil {
		return "", err
	}
	return target, nil
}
