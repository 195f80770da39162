package conformance

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadedSuite pairs a suite with its source file
type LoadedSuite struct {
	File  string
	Suite TestSuite
}

// LoadAll reads every .yaml suite under the given directory
func LoadAll(dir string) ([]LoadedSuite, error) {
	var loaded []LoadedSuite

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var suite TestSuite
		if err := yaml.Unmarshal(data, &suite); err != nil {
			return err
		}

		rel, _ := filepath.Rel(dir, path)
		loaded = append(loaded, LoadedSuite{File: rel, Suite: suite})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return loaded, nil
}
