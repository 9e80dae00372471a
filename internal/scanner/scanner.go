package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docmill/docmill/constants"
	"github.com/docmill/docmill/internal/common"
)

// Options controls document discovery.
type Options struct {
	Extensions []string // default: docx
	Recursive  bool     // walk subdirectories
	SkipHidden bool     // skip dotfiles and dot-directories
}

// Scan enumerates files under root whose extension matches the configured set,
// case-insensitive. The result is ordered lexicographically by path so that
// processing order is stable across runs for the same directory snapshot.
// A missing or non-directory root fails with common.ErrNotFound; an empty
// result is valid, not an error.
func Scan(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, common.NotFoundError("input directory "+root, err)
	}
	if !info.IsDir() {
		return nil, common.NotFoundError(root+" is not a directory", nil)
	}

	exts := constants.ExtSet(opts.Extensions)

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recursive || (opts.SkipHidden && isHidden(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if opts.SkipHidden && isHidden(path) {
			return nil
		}
		// Word keeps "~$name.docx" lock files next to open documents.
		if strings.HasPrefix(filepath.Base(path), "~$") {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := exts[ext]; !ok {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		// The root exists; a mid-walk failure is an access problem, not a
		// missing path.
		return nil, common.IOError("walk "+root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Matches reports whether a single path passes the extension filter.
// Used by the watcher, which sees paths one at a time.
func Matches(path string, opts Options) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	if opts.SkipHidden && strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := constants.ExtSet(opts.Extensions)[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
