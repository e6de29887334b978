package domain

import "path/filepath"

const (
	// PortableFileName is the name of the rewritten environment file.
	PortableFileName = "environment.portable.yml"

	// LockFileName is the name of the file written by conda-lock.
	LockFileName = "conda-lock.yml"

	// DefaultLockTool is the executable used to verify the portable environment.
	DefaultLockTool = "conda-lock"

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultLockPlatforms returns the conda subdirs the portable environment is locked for.
func DefaultLockPlatforms() []string {
	return []string{"win-64", "osx-arm64", "linux-64"}
}

// PortablePath returns the path of the portable file written next to envPath.
func PortablePath(envPath string) string {
	return filepath.Join(filepath.Dir(envPath), PortableFileName)
}
