package registry

import (
	"os"
	"path/filepath"
)

// DirectorySource serves guideline content from a directory laid out with one
// file per version, named <version>.json. This matches how guideline sets are
// distributed: a checked-out tree of versioned documents.
func DirectorySource(dir string) Source {
	return func(version string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, version+".json"))
	}
}
