package catalog

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// SortedControlPaths finds every markdown file under dir, including nested
// group subdirectories, whose stem names a control id. Paths come back in a
// stable lexicographic order so generate and assemble walk controls
// identically across runs.
func SortedControlPaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return filepath.ToSlash(paths[i]) < filepath.ToSlash(paths[j])
	})
	return paths, nil
}

// ControlIDFromPath derives the control id a markdown file denotes: the file
// name without its extension. Dots inside the stem are preserved, so
// "s.1.1.1.md" names control "s.1.1.1".
func ControlIDFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
