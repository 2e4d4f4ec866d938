package probe

import (
	"errors"
	"fmt"
	"os"
)

// markerPattern names the throwaway file written by WriteTest.
const markerPattern = "status_write_test-*.txt"

// WriteTest checks that dir accepts new files by creating a uniquely named marker
// file, writing to it and removing it again. Any file it managed to create is
// removed before it returns.
func WriteTest(dir string) (err error) {
	if dir == "" {
		dir = os.TempDir()
	}

	f, err := os.CreateTemp(dir, markerPattern)
	if err != nil {
		return fmt.Errorf("create marker in %s: %w", dir, err)
	}

	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && err == nil {
			err = fmt.Errorf("remove marker %s: %w", f.Name(), rmErr)
		}
	}()

	if _, err := f.WriteString("ok"); err != nil {
		f.Close()
		return fmt.Errorf("write marker %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close marker %s: %w", f.Name(), err)
	}

	return nil
}

// FirstWritable tries each candidate directory in order and returns the first one
// that passes WriteTest. When none does, the returned error joins every failure.
func FirstWritable(dirs ...string) (string, error) {
	if len(dirs) == 0 {
		return "", errors.New("no candidate directories")
	}

	var errs []error
	for _, dir := range dirs {
		err := WriteTest(dir)
		if err == nil {
			return dir, nil
		}
		errs = append(errs, err)
	}

	return "", errors.Join(errs...)
}
