package script

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputError reports a script that could not be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("cannot write output file %q: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// WriteFile writes the script next to path and renames it into place, so
// path holds either the previous content or the complete new script.
func WriteFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".qb-prompt-*.sh")
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return &OutputError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &OutputError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}
