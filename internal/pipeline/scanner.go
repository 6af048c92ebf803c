package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input it was found under.
	RelPath string
	// Key is the report key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Scan resolves every input, file or directory, into image sources.
// Keys that collide across inputs get the first free numeric suffix.
func Scan(inputs []string) ([]Source, error) {
	var sources []Source
	seen := map[string]bool{}
	next := map[string]int{}

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", in, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}

		var found []Source
		if info.IsDir() {
			found, err = ScanImages(abs)
			if err != nil {
				return nil, err
			}
		} else {
			src, ok := newSource(abs, filepath.Base(abs), info.Size())
			if !ok {
				return nil, fmt.Errorf("%s: not a recognized image extension", in)
			}
			found = []Source{src}
		}

		for _, s := range found {
			s.Key = uniqueKey(s.Key, seen, next)
			sources = append(sources, s)
		}
	}
	return sources, nil
}

// uniqueKey returns key, or key-N for the smallest N >= 2 not yet taken,
// and marks the result as taken.
func uniqueKey(key string, seen map[string]bool, next map[string]int) string {
	if seen[key] {
		n := next[key]
		if n < 2 {
			n = 2
		}
		for seen[fmt.Sprintf("%s-%d", key, n)] {
			n++
		}
		next[key] = n + 1
		key = fmt.Sprintf("%s-%d", key, n)
	}
	seen[key] = true
	return key
}

// ScanImages walks the input directory and returns all image sources.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		if src, ok := newSource(path, relPath, info.Size()); ok {
			sources = append(sources, src)
		}
		return nil
	})

	return sources, err
}

func newSource(absPath, relPath string, size int64) (Source, bool) {
	ext := strings.ToLower(filepath.Ext(absPath))
	if !imageExtensions[ext] {
		return Source{}, false
	}

	// Key: relative path without extension, using forward slashes.
	key := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))

	format := strings.TrimPrefix(ext, ".")
	switch format {
	case "jpg":
		format = "jpeg"
	case "tif":
		format = "tiff"
	}

	return Source{
		AbsPath: absPath,
		RelPath: filepath.ToSlash(relPath),
		Key:     key,
		Format:  format,
		Size:    size,
	}, true
}
