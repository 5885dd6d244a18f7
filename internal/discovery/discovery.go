package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExt is the extension used when none is configured.
const DefaultExt = ".go"

// NotFoundError reports a requested path that is neither a file nor a
// directory.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist.", e.Path)
}

var testDirPattern = regexp.MustCompile(`^(test|spec)`)

// Finder walks an afero filesystem selecting spec files.
type Finder struct {
	fs      afero.Fs
	ext     string
	inDir   *regexp.Regexp
	outside *regexp.Regexp
}

// NewFinder returns a Finder over fs for files ending in ext. An empty ext
// means DefaultExt.
func NewFinder(fs afero.Fs, ext string) *Finder {
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	quoted := regexp.QuoteMeta(ext)
	return &Finder{
		fs:      fs,
		ext:     ext,
		inDir:   regexp.MustCompile(quoted + `$`),
		outside: regexp.MustCompile(`(_test|_spec|Test|Spec)` + quoted + `$`),
	}
}

// Discover is shorthand for NewFinder(fs, ext).Find(paths).
func Discover(fs afero.Fs, paths []string, ext string) ([]string, error) {
	return NewFinder(fs, ext).Find(paths)
}

// Find returns the selected files for paths, in argument order. Files named
// explicitly are returned as given regardless of their name; directories are
// walked recursively in lexical order. No paths means the current directory.
func (f *Finder) Find(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	for _, p := range paths {
		info, err := f.fs.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &NotFoundError{Path: p}
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		found, err := f.collect(p, false)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (f *Finder) collect(dir string, insideTestDir bool) ([]string, error) {
	isTestDir := insideTestDir || testDirPattern.MatchString(filepath.Base(dir))
	pattern := f.outside
	if isTestDir {
		pattern = f.inDir
	}

	// afero.ReadDir sorts entries by name.
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			found, err := f.collect(path, isTestDir)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if entry.Mode().IsRegular() && pattern.MatchString(entry.Name()) {
			files = append(files, path)
		}
	}
	return files, nil
}
