package domain

import "go.trai.ch/zerr"

var (
	// ErrEnvFileRequired is returned when no environment file path was given.
	ErrEnvFileRequired = zerr.New("environment file path is required")

	// ErrEnvFileNotFound is returned when the environment file does not exist.
	ErrEnvFileNotFound = zerr.New("environment file not found")

	// ErrEnvFileReadFailed is returned when the environment file cannot be read.
	ErrEnvFileReadFailed = zerr.New("failed to read environment file")

	// ErrEnvFileParseFailed is returned when the environment file is not valid YAML.
	ErrEnvFileParseFailed = zerr.New("failed to parse environment file")

	// ErrEnvFileWriteFailed is returned when the portable environment file cannot be written.
	ErrEnvFileWriteFailed = zerr.New("failed to write environment file")

	// ErrMissingDependencies is returned when the environment file has no 'dependencies' key.
	ErrMissingDependencies = zerr.New("no 'dependencies' in environment file")

	// ErrInvalidDependencies is returned when 'dependencies' is not a list.
	ErrInvalidDependencies = zerr.New("'dependencies' must be a list")

	// ErrUnknownPlatform is returned when the source platform is not one of the supported values.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrProfilesReadFailed is returned when a platform profile file cannot be read.
	ErrProfilesReadFailed = zerr.New("failed to read platform profiles")

	// ErrProfilesInvalid is returned when platform profiles fail to parse or validate.
	ErrProfilesInvalid = zerr.New("invalid platform profiles")

	// ErrToolNotFound is returned when an external executable cannot be located.
	ErrToolNotFound = zerr.New("executable not found")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrLockToolMissing is returned when the lock tool is not available.
	ErrLockToolMissing = zerr.New("conda-lock not found. Install with: pip install conda-lock")

	// ErrLockFailed is returned when the lock tool exits with a non-zero status.
	ErrLockFailed = zerr.New("conda-lock failed")
)
