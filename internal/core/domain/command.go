package domain

import "strings"

// Command describes an external process invocation.
type Command struct {
	// Name is the executable, resolved through PATH when not absolute.
	Name string
	// Args are passed to the executable as separate arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Argv returns the full argument vector including the executable.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// LockRequest is the input of a lock verification run.
type LockRequest struct {
	// Tool is the lock executable, usually DefaultLockTool.
	Tool string
	// File is the environment file to lock.
	File string
	// Platforms are the conda subdirs to lock for, e.g. "linux-64".
	Platforms []string
}

// LockCommand builds the lock-generation invocation for the request.
func (r LockRequest) LockCommand() Command {
	args := []string{"lock", "--mamba", "--file", r.File}
	for _, p := range r.Platforms {
		args = append(args, "--platform", p)
	}
	return Command{Name: r.Tool, Args: args}
}

// ProbeCommand builds the availability check for the lock tool.
func (r LockRequest) ProbeCommand() Command {
	return Command{Name: r.Tool, Args: []string{"--version"}}
}
