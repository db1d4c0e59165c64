package walker

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File is one enumerated text file, ready for indexing.
type File struct {
	Path      string
	RelPath   string
	Content   string
	ModTime   time.Time
	Size      int64
	Extension string
}

// maxFileSize is the largest file we'll consider (1 MB).
const maxFileSize = 1 << 20

// defaultIgnores are used when no .semdexignore file exists.
var defaultIgnores = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"vendor",
	"__pycache__",
	".idea",
	".vscode",
	".semdex",
	"dist",
	"build",
}

// Walk traverses the directory tree rooted at root and returns the text
// files found, in walk order. Directories matching .semdexignore patterns
// are skipped, as are symlinks, empty files, files over the size limit,
// and files that look binary.
func Walk(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	ignores := loadIgnorePatterns(absRoot)

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors, keep walking
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			rel, _ := filepath.Rel(absRoot, path)
			if matchesIgnore(d.Name(), filepath.ToSlash(rel), ignores) {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip symlinks.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)
		relPath = filepath.ToSlash(relPath)

		// The ignore file itself is never indexed; ignore patterns apply
		// to files as well as directories.
		if d.Name() == ".semdexignore" || matchesIgnore(d.Name(), relPath, ignores) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxFileSize || info.Size() == 0 {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return nil // unreadable files are not this walk's concern
		}
		if isBinary(src) {
			return nil
		}

		files = append(files, File{
			Path:      path,
			RelPath:   relPath,
			Content:   string(src),
			ModTime:   info.ModTime(),
			Size:      info.Size(),
			Extension: strings.TrimPrefix(filepath.Ext(path), "."),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isBinary sniffs the first KB for a NUL byte.
func isBinary(src []byte) bool {
	sniff := src
	if len(sniff) > 1024 {
		sniff = sniff[:1024]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}

// loadIgnorePatterns reads .semdexignore from the project root.
// If the file doesn't exist, it creates one with the default patterns.
func loadIgnorePatterns(root string) []string {
	ignorePath := filepath.Join(root, ".semdexignore")

	f, err := os.Open(ignorePath)
	if err != nil {
		// File doesn't exist — create it with defaults.
		createDefaultIgnoreFile(ignorePath)
		return defaultIgnores
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return defaultIgnores
	}
	return patterns
}

func createDefaultIgnoreFile(path string) {
	var b strings.Builder
	b.WriteString("# Directories to exclude from indexing.\n")
	b.WriteString("# One pattern per line. Supports exact names and globs.\n\n")
	for _, p := range defaultIgnores {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	// Best-effort write; if it fails the defaults are still used in memory.
	os.WriteFile(path, []byte(b.String()), 0o644)
}

// matchesIgnore checks if a directory name or relative path matches any ignore pattern.
func matchesIgnore(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		// Exact directory name match (e.g. "node_modules", ".git").
		if name == p {
			return true
		}
		// Path prefix match (e.g. "third_party/vendor").
		if strings.HasPrefix(relPath, p) {
			return true
		}
		// Glob match against the relative path.
		if matched, _ := filepath.Match(p, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
