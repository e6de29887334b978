// Package app implements the application layer for conda-portable.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/core/ports"
	"go.trai.ch/portable/internal/engine/rewriter"
	"go.trai.ch/zerr"
)

// SectionTitle is the banner printed before the environment is rewritten.
const SectionTitle = "Making environment portable"

// App represents the main application logic.
type App struct {
	store    ports.EnvironmentStore
	profiles ports.ProfileStore
	verifier ports.LockVerifier
	reporter ports.Reporter
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	store ports.EnvironmentStore,
	profiles ports.ProfileStore,
	verifier ports.LockVerifier,
	reporter ports.Reporter,
	log ports.Logger,
) *App {
	return &App{
		store:    store,
		profiles: profiles,
		verifier: verifier,
		reporter: reporter,
		logger:   log,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// EnvPath is the environment file to make portable.
	EnvPath string
	// FromPlatform is the platform the environment was exported on.
	FromPlatform domain.Platform
	// Platforms are the lock targets. Empty means domain.DefaultLockPlatforms.
	Platforms []string
	// LockTool is the lock executable. Empty means domain.DefaultLockTool.
	LockTool string
	// ProfilesPath overrides the bundled platform profiles when set.
	ProfilesPath string
}

// Run writes the portable environment next to opts.EnvPath and verifies it
// with the lock tool. Nothing is written when the input is rejected.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	opts = withDefaults(opts)

	if opts.EnvPath == "" {
		return domain.ErrEnvFileRequired
	}
	if _, err := os.Stat(opts.EnvPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrEnvFileNotFound, "path", opts.EnvPath)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "path", opts.EnvPath)
	}

	a.reporter.Section(SectionTitle)

	doc, err := a.store.Read(opts.EnvPath)
	if err != nil {
		return err
	}

	profile, err := a.profiles.Load(opts.ProfilesPath, opts.FromPlatform)
	if err != nil {
		return err
	}

	report := rewriter.Rewrite(doc, profile, opts.FromPlatform)
	a.logReport(report, opts.FromPlatform)

	out := domain.PortablePath(opts.EnvPath)
	if err := a.store.Write(out, doc); err != nil {
		return err
	}
	a.reporter.Success(fmt.Sprintf("wrote %s (from %s)", out, opts.FromPlatform))

	return a.verifier.Verify(ctx, domain.LockRequest{
		Tool:      opts.LockTool,
		File:      out,
		Platforms: opts.Platforms,
	})
}

func withDefaults(opts RunOptions) RunOptions {
	if opts.FromPlatform == "" {
		opts.FromPlatform = domain.PlatformWindows
	}
	if len(opts.Platforms) == 0 {
		opts.Platforms = domain.DefaultLockPlatforms()
	}
	if opts.LockTool == "" {
		opts.LockTool = domain.DefaultLockTool
	}
	return opts
}

func (a *App) logReport(report rewriter.Report, from domain.Platform) {
	if len(report.Dropped) > 0 {
		a.logger.Info(fmt.Sprintf("dropped %d %s-only conda package(s): %s",
			len(report.Dropped), from, strings.Join(report.Dropped, ", ")))
	}
	if len(report.Tagged) > 0 {
		a.logger.Info(fmt.Sprintf("restricted %d pip package(s) to %s", len(report.Tagged), from))
	}
	if len(report.BackendsRemoved) > 0 {
		a.logger.Info("removed competing BLAS backends: " + strings.Join(report.BackendsRemoved, ", "))
	}
	if report.BackendInserted {
		a.logger.Info("pinned " + rewriter.BackendPin)
	}
	if report.DiscardedPipSections > 0 {
		a.logger.Warn(fmt.Sprintf("found %d pip sections, only the last one is kept",
			report.DiscardedPipSections+1))
	}
}
