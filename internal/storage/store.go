package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// NotFoundErr marks a blob that does not exist at the given path.
	NotFoundErr = errors.New("not found")
	// CouldNotLoadErr marks a blob that exists but could not be decoded.
	CouldNotLoadErr = errors.New("could not load")
)

// Save writes the given value as a json blob to the given file path,
// creating the parent directory if needed.
func Save(path string, value interface{}) error {
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir '%s': %w", dir, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("parent '%s' is not a directory", dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer f.Close()

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value for '%s': %w", path, err)
	}

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("could not write bytes to '%s': %w", path, err)
	}

	return nil
}

// Load reads the json blob at the given file path into the given value.
func Load(path string, value interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read file '%s' %s: %w", path, err.Error(), NotFoundErr)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("could not decode '%s' %s: %w", path, err.Error(), CouldNotLoadErr)
	}

	return nil
}
