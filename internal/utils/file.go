package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("expected a file, got a directory: %s", path)
	}
	return true, nil
}

const (
	FileTypeJSON = "json"
	FileTypeYAML = "yaml"
)

func FileReader(path string, fileType string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("file %s is empty", path)
	}

	switch fileType {
	case FileTypeJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", path, err)
		}
	case FileTypeYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file type %s for file %s", fileType, path)
	}
	return nil
}

func CreateFile(path string, content any, fileType string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", path, err)
	}

	var data []byte
	var err error

	switch fileType {
	case FileTypeJSON:
		data, err = json.MarshalIndent(content, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON for %s: %w", path, err)
		}
	case FileTypeYAML:
		data, err = yaml.Marshal(content)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML for %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file type %s for file %s", fileType, path)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

// WriteFileAtomic streams r to tmpPath and renames it over finalPath only
// after a successful sync, so no partial file is ever visible at finalPath.
func WriteFileAtomic(tmpPath, finalPath string, r io.Reader) error {
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(tmp, r)
	syncErr := tmp.Sync()
	closeErr := tmp.Close()

	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return copyErr
	}
	if syncErr != nil {
		_ = os.Remove(tmpPath)
		return syncErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// fsync directory for durability
	return fsyncDir(filepath.Dir(finalPath))
}

func fsyncDir(dir string) error {
	df, err := os.Open(dir)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := df.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	// On non-Unix, Sync may be no-op; fine.
	if f, ok := any(df).(interface{ Sync() error }); ok {
		_ = f.Sync()
	}
	return err
}

// HumanSize renders a byte count with a binary-unit suffix.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
