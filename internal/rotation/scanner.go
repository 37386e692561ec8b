// Package rotation discovers publishable assets and decides which of them to
// post next, preferring never-posted assets and then the least recently
// posted ones.
package rotation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autoposter/internal/domain"
)

// Dir is one asset directory and the media kind it holds.
type Dir struct {
	Path string // relative to the project root
	Kind domain.MediaKind
}

// Scanner lists assets in a fixed set of directories. Directories are
// scanned in order and are not descended into.
type Scanner struct {
	root string
	dirs []Dir
}

// NewScanner resolves root to an absolute path so every Asset.AbsPath is
// absolute.
func NewScanner(root string, dirs ...Dir) *Scanner {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Scanner{root: root, dirs: dirs}
}

// Root returns the absolute project root the scanner resolves against.
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns every recognized asset, directory by directory with names
// sorted. A missing directory contributes nothing.
func (s *Scanner) Scan() ([]domain.Asset, error) {
	var assets []domain.Asset

	for _, dir := range s.dirs {
		abs := filepath.Join(s.root, dir.Path)
		entries, err := os.ReadDir(abs)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir.Path, err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			kind, err := domain.KindForPath(e.Name())
			if err != nil || kind != dir.Kind {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			assets = append(assets, domain.Asset{
				Path:    filepath.ToSlash(filepath.Join(dir.Path, name)),
				Kind:    dir.Kind,
				AbsPath: filepath.Join(abs, name),
			})
		}
	}

	return assets, nil
}

// Normalize turns path into the key used by the rotation state: slash
// separated and relative to root when it lies under root. Relative paths
// are taken relative to the working directory, as file arguments are.
func Normalize(root, path string) string {
	clean := filepath.Clean(path)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(clean)
	}
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return filepath.ToSlash(clean)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(clean)
	}
	return filepath.ToSlash(rel)
}
