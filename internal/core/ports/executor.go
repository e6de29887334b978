// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/portable/internal/core/domain"
)

// Executor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command to completion, streaming its output to stdout and stderr.
	//
	// It returns an error if the executable cannot be found or exits with a non-zero status.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error

	// Output runs the command and returns its captured standard output.
	Output(ctx context.Context, cmd domain.Command) ([]byte, error)
}
