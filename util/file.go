package util

import (
	"os"
	"path/filepath"

	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

func ReadFileYAML(path string, target interface{}) error {
	if !utility.FileExists(path) {
		return errors.Errorf("file %s does not exist", path)
	}

	yamlData, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "invalid file: %s", path)
	}

	if err := yaml.Unmarshal(yamlData, target); err != nil {
		return errors.Wrapf(err, "problem parsing yaml from file %s", path)
	}

	return nil
}

// OutputDir returns the directory containing path, "." when the path
// has no directory component.
func OutputDir(path string) string { return filepath.Dir(path) }
