// Package condalock verifies a portable environment by locking it with conda-lock.
package condalock

import (
	"context"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/core/ports"
	"go.trai.ch/zerr"
)

// SectionTitle is the banner printed before the lock runs.
const SectionTitle = "Verifying portable environment with conda-lock"

// Verifier implements ports.LockVerifier by running the lock tool through an executor.
type Verifier struct {
	executor ports.Executor
	reporter ports.Reporter
	logger   ports.Logger
	stdout   io.Writer
	stderr   io.Writer
}

var _ ports.LockVerifier = (*Verifier)(nil)

// NewVerifier creates a Verifier. The lock tool's output is streamed to stdout and stderr.
func NewVerifier(
	executor ports.Executor,
	reporter ports.Reporter,
	logger ports.Logger,
	stdout, stderr io.Writer,
) *Verifier {
	return &Verifier{
		executor: executor,
		reporter: reporter,
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// Verify probes the lock tool and, if it is available, locks req.File for every
// requested platform. The lock step never runs when the probe fails.
func (v *Verifier) Verify(ctx context.Context, req domain.LockRequest) error {
	out, err := v.executor.Output(ctx, req.ProbeCommand())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockToolMissing.Error()), "tool", req.Tool)
	}

	toolVersion := "unknown"
	if version, ok := parseVersion(string(out)); ok {
		toolVersion = version.String()
		v.logger.Info("using " + req.Tool + " " + toolVersion)
	} else {
		v.logger.Warn("could not determine " + req.Tool + " version from " + strings.TrimSpace(string(out)))
	}

	v.reporter.Section(SectionTitle)

	cmd := req.LockCommand()
	v.reporter.Command(cmd.Argv())

	if err := v.executor.Execute(ctx, cmd, v.stdout, v.stderr); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrLockFailed.Error()), "file", req.File)
		return zerr.With(err, "tool_version", toolVersion)
	}

	v.reporter.Success("wrote " + domain.LockFileName)
	return nil
}

// parseVersion finds the first semantic version in the probe output, which is
// usually "conda-lock, version X.Y.Z".
func parseVersion(out string) (*semver.Version, bool) {
	for _, field := range strings.Fields(out) {
		field = strings.Trim(field, ",;()")
		if field == "" || !strings.ContainsAny(field[:1], "0123456789vV") {
			continue
		}
		if version, err := semver.NewVersion(field); err == nil {
			return version, true
		}
	}
	return nil, false
}
