package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"recast/pkg/imgutil"
)

type skippedSource struct {
	Path   string
	Reason string
}

// collectSources expands directories to their image files and drops any
// path whose leading bytes match no known image signature.
func collectSources(args []string, recursive bool) ([]string, []skippedSource, error) {
	var candidates []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		if !info.IsDir() {
			candidates = append(candidates, arg)
			continue
		}
		found, err := expandDir(arg, recursive)
		if err != nil {
			return nil, nil, err
		}
		candidates = append(candidates, found...)
	}

	var sources []string
	var skipped []skippedSource
	seen := make(map[string]bool)
	for _, path := range candidates {
		if seen[path] {
			continue
		}
		seen[path] = true

		kind, err := imgutil.SniffFile(path)
		if err != nil {
			skipped = append(skipped, skippedSource{Path: path, Reason: err.Error()})
			continue
		}
		if kind == imgutil.KindUnknown {
			skipped = append(skipped, skippedSource{Path: path, Reason: "not a recognized image"})
			continue
		}
		sources = append(sources, path)
	}
	return sources, skipped, nil
}

func expandDir(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && imgutil.HasImageExt(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
