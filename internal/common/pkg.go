package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty. Major version suffixes are skipped.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		return path.Base(path.Dir(pkgPath))
	}

	return strings.ReplaceAll(base, "-", "")
}

// QualifiedName joins a package path and an identifier as "path.Name".
func QualifiedName(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}

	return pkgPath + "." + name
}

// SplitQualifiedName splits "path/to/pkg.Name" at the last dot.
// A name without a dot is returned with an empty package path.
func SplitQualifiedName(s string) (pkgPath, name string) {
	i := strings.LastIndex(s, ".")
	if i < 0 || strings.LastIndex(s, "/") > i {
		return "", s
	}

	return s[:i], s[i+1:]
}
