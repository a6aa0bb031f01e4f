package config

import (
	"os"
	"path/filepath"
)

var executable = os.Executable

// ResolveAsset finds a bundled file such as a shader. Absolute paths and
// paths that exist relative to the working directory are used as given;
// otherwise the path is tried next to the running binary. If neither
// exists the path comes back unchanged.
func ResolveAsset(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}

	exe, err := executable()
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	candidate := filepath.Join(filepath.Dir(exe), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
