package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

var errStopWalk = errors.New("stop walk")

// walkMatches walks the tree under root in lexical order and invokes fn with
// the slash-normalized relative path of every regular file matching one of
// the glob patterns. fn returns true to stop the walk early. Symlinks are
// descended (or accepted, for files) only when followSymlink is set; dangling
// symlinks are skipped.
func walkMatches(root string, patterns []string, followSymlink bool, fn func(rel string) bool) error {
	err := walkTree(root, "", patterns, followSymlink, fn)
	if err == errStopWalk {
		return nil
	}
	return err
}

func walkTree(dir, prefix string, patterns []string, followSymlink bool, fn func(rel string) bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		rel := entry.Name()
		if prefix != "" {
			rel = prefix + "/" + entry.Name()
		}
		full := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if !isDir && entry.Type()&fs.ModeSymlink != 0 {
			if !followSymlink {
				continue
			}
			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if err := walkTree(full, rel, patterns, followSymlink, fn); err != nil {
				return err
			}
			continue
		}

		for _, pattern := range patterns {
			matched, err := doublestar.Match(pattern, rel)
			if err != nil {
				return errors.New("invalid glob pattern " + pattern + ": " + err.Error())
			}
			if matched {
				if fn(rel) {
					return errStopWalk
				}
				break
			}
		}
	}
	return nil
}
