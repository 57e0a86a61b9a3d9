//go:build !unix

package system

import "os"

// RedirectStdIO replaces os.Stdout and os.Stderr. Output the runtime writes
// directly, such as panics, still reaches the original stderr.
func RedirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
