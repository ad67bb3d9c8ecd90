package pageset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// MaxOrderedPages is the last page number whose file name still sorts correctly.
// Past it the zero padding runs out and lexicographic order diverges from page order.
const MaxOrderedPages = 9999

var pageFilePattern = regexp.MustCompile(`^[0-9]{4,}\.png$`)

// FileName returns the file name of page n, e.g. 1 -> 0001.png
func FileName(n int) string {
	return fmt.Sprintf("%04d.png", n)
}

// Path returns the path of page n inside dir
func Path(dir string, n int) string {
	return filepath.Join(dir, FileName(n))
}

// Paths returns the paths of pages 1..count in index order
func Paths(dir string, count int) []string {
	paths := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		paths = append(paths, Path(dir, i))
	}
	return paths
}

// IsPageFile reports whether name follows the page naming pattern
func IsPageFile(name string) bool {
	return pageFilePattern.MatchString(name)
}

// List returns the page files found in dir, sorted lexicographically by name
func List(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read page directory '%s': %w", dir, err)
	}

	var pages []string
	for _, file := range files {
		if !file.IsDir() && IsPageFile(file.Name()) {
			pages = append(pages, file.Name())
		}
	}
	sort.Strings(pages)

	paths := make([]string, len(pages))
	for i, name := range pages {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
