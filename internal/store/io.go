package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// readJSON decodes path into out. A file that does not exist yet leaves
// out untouched.
func readJSON(path string, out any) error {
	raw, err := readFile(path)
	if err != nil || raw == nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// readFile reads path, mapping a missing file to (nil, nil).
func readFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return raw, nil
}

// writeJSON marshals v and writes it atomically.
func writeJSON(path string, v any, mode os.FileMode) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, raw, mode)
}

// writeFile replaces path atomically: write a temp file in the same
// directory, fsync it, then rename over the target so a crash mid-write
// never leaves a partial record behind.
func writeFile(path string, raw []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(raw)
	if err == nil {
		err = tmp.Chmod(mode)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
