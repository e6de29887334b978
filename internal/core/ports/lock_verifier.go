package ports

import (
	"context"

	"go.trai.ch/portable/internal/core/domain"
)

// LockVerifier checks that an environment file resolves on the requested platforms.
//
//go:generate mockgen -source=lock_verifier.go -destination=mocks/mock_lock_verifier.go -package=mocks
type LockVerifier interface {
	// Verify ensures the lock tool is available and runs it for req.
	Verify(ctx context.Context, req domain.LockRequest) error
}
