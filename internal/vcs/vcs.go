package vcs

import "runtime/debug"

// Version returns the main module's version from the embedded build information,
// or an empty string when the binary carries none.
func Version() string {
	// Read build information from the executable.
	bi, ok := debug.ReadBuildInfo()
	if ok {
		// Return the main module's version if available.
		return bi.Main.Version
	}

	// Return an empty string if build information is not available.
	return ""
}

// ModuleVersion looks up the version of a dependency module that was linked into
// the binary. The second return value reports whether the module was found.
func ModuleVersion(path string) (string, bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		// A replaced module reports the replacement's version.
		if dep.Replace != nil {
			return dep.Replace.Version, true
		}
		return dep.Version, true
	}

	return "", false
}
