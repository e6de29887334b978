package domain

import "strings"

// operators is ordered so that longer operators win over their prefixes.
var operators = []string{"===", "==", ">=", "<=", "!=", "~=", "=", ">", "<"}

// BaseName extracts the lowercased package name from a conda or pip specifier,
// e.g. "NumPy>=1.18.0; python_version >= '3.6'" yields "numpy".
//
// The result is only a lookup key and is never written back to a file.
func BaseName(spec string) string {
	spec, _, _ = strings.Cut(spec, ";")
	spec = strings.TrimSpace(spec)
	spec, _, _ = strings.Cut(spec, "[")

	for _, op := range operators {
		if before, _, found := strings.Cut(spec, op); found {
			spec = before
			break
		}
	}

	return strings.ToLower(strings.TrimSpace(spec))
}
