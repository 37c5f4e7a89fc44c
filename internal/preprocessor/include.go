package preprocessor

import (
	"os"
	"path/filepath"

	"github.com/KikuchiTomo/cclint/internal/collections"
)

// IncludeResolver resolves `#include` directives to file contents via a
// two-phase search order (quoted then system paths), and guards against
// processing the same file twice within one translation unit.
type IncludeResolver struct {
	// IncludePaths are the user-configured include directories, searched
	// for both quoted and angle-bracket includes (after the current file's
	// own directory, for quoted includes).
	IncludePaths []string
	// SystemPaths are the compiler/platform system include directories,
	// searched last for both forms.
	SystemPaths []string
	// ExpandSystemIncludes gates whether SystemPaths is consulted at all;
	// system paths are skipped entirely when this is false.
	ExpandSystemIncludes bool

	seen collections.Set[string]
	read func(path string) ([]byte, error)
}

// NewIncludeResolver constructs a resolver. readFile defaults to os.ReadFile
// when nil, overridable for tests.
func NewIncludeResolver(readFile func(string) ([]byte, error)) *IncludeResolver {
	if readFile == nil {
		readFile = os.ReadFile
	}
	return &IncludeResolver{seen: make(collections.Set[string]), read: readFile}
}

// Resolve finds and reads the file referenced by an #include directive.
// currentDir is the directory of the file containing the directive. Returns
// (nil, resolvedPath, false, nil) if the file was already included in this
// translation unit (the multiple-inclusion guard at the resolver level,
// independent of any #ifndef header guard in the file itself).
func (r *IncludeResolver) Resolve(path string, isSystem bool, currentDir string) (content []byte, resolvedPath string, included bool, err error) {
	candidates := r.candidatePaths(path, isSystem, currentDir)
	for _, candidate := range candidates {
		data, readErr := r.read(candidate)
		if readErr != nil {
			continue
		}
		abs := candidate
		if a, absErr := filepath.Abs(candidate); absErr == nil {
			abs = a
		}
		if r.seen.Contains(abs) {
			return nil, candidate, false, nil
		}
		r.seen.Add(abs)
		return data, candidate, true, nil
	}
	return nil, "", false, newError(zeroPos, "could not resolve #include %q", path)
}

func (r *IncludeResolver) candidatePaths(path string, isSystem bool, currentDir string) []string {
	var out []string
	if !isSystem {
		out = append(out, filepath.Join(currentDir, path))
	}
	out = append(out, joinAll(r.IncludePaths, path)...)
	if r.ExpandSystemIncludes {
		out = append(out, joinAll(r.SystemPaths, path)...)
	}
	return out
}

func joinAll(dirs []string, path string) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = filepath.Join(d, path)
	}
	return out
}
