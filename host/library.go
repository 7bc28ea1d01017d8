package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dop251/goja_nodejs/require"

	"github.com/reglet-dev/pate/application/validation"
)

// library is the script library: a tree of .js modules addressed by dotted
// names ("alpha.beta" is alpha/beta.js or alpha/beta/index.js).
type library struct {
	fsys fs.FS
	path string
}

func openLibrary(dir string, fsys fs.FS) (*library, error) {
	if fsys != nil {
		if dir == "" {
			dir = "<fs>"
		}
		return &library{fsys: fsys, path: dir}, nil
	}
	if dir == "" {
		return nil, errors.New("no script library configured")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &library{fsys: os.DirFS(dir), path: dir}, nil
}

// load is the require source loader. Paths arrive absolute ("/alpha/beta.js").
func (l *library) load(p string) ([]byte, error) {
	if l == nil {
		return nil, require.ModuleFileDoesNotExistError
	}
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" || !fs.ValidPath(name) {
		return nil, require.ModuleFileDoesNotExistError
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, require.ModuleFileDoesNotExistError
	}
	if info, statErr := fs.Stat(l.fsys, name); statErr == nil && info.IsDir() {
		return nil, require.ModuleFileDoesNotExistError
	}
	return nil, err
}

// modules lists the dotted names of the library modules matching pattern.
func (l *library) modules(pattern string) ([]string, error) {
	if l == nil {
		return nil, nil
	}
	if pattern == "" {
		pattern = "**/*.js"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid module pattern %q", pattern)
	}

	matches, err := doublestar.Glob(l.fsys, pattern)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name, ok := moduleName(m)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// moduleName maps a library file to its dotted module name.
func moduleName(file string) (string, bool) {
	if !strings.HasSuffix(file, ".js") {
		return "", false
	}
	name := strings.TrimSuffix(file, ".js")
	if name == "index" {
		return "", false
	}
	name = strings.TrimSuffix(name, "/index")
	name = strings.ReplaceAll(name, "/", ".")
	if !validation.IsModuleName(name) {
		return "", false
	}
	return name, true
}

// modulePath maps a dotted module name to its absolute library path.
func modulePath(name string) string {
	return "/" + strings.ReplaceAll(name, ".", "/")
}
