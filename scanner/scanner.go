package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a directory tree collecting files with the given extensions.
type Scanner struct {
	rootDir    string
	extensions []string
	skipDirs   map[string]bool
}

// New returns a scanner for rootDir. Without extensions every file matches.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
		skipDirs:   map[string]bool{},
	}
}

// SkipDir excludes directories with the given base name from the walk.
func (s *Scanner) SkipDir(names ...string) *Scanner {
	for _, name := range names {
		s.skipDirs[name] = true
	}
	return s
}

// Scan returns the matching files sorted by path. Hidden directories other
// than the root are not entered.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && (strings.HasPrefix(d.Name(), ".") || s.skipDirs[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isTargetFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
