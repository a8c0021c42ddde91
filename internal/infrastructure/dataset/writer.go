package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// WriteCSV persists a dataframe to path, creating parent directories.  An
// existing file is overwritten: reruns replace prior artifacts.
func WriteCSV(df dataframe.DataFrame, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArtifactWriteFailed, "failed to create CSV artifact").WithDetail("path=" + path)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return errors.Wrap(err, errors.ErrCodeArtifactWriteFailed, "failed to write CSV artifact").WithDetail("path=" + path)
	}
	return nil
}

// WriteJSON persists v as indented JSON to path, creating parent directories.
func WriteJSON(path string, v interface{}) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode JSON artifact").WithDetail("path=" + path)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeArtifactWriteFailed, "failed to write JSON artifact").WithDetail("path=" + path)
	}
	return nil
}

// ReadJSON loads a JSON artifact into v.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMissingInput, "artifact not found").WithDetail("path=" + path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeArtifactInvalid, "failed to decode JSON artifact").WithDetail("path=" + path)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeArtifactWriteFailed, "failed to create artifact directory").WithDetail("dir=" + dir)
	}
	return nil
}
