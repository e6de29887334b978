package condalock

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/portable/internal/adapters/linear"
	"go.trai.ch/portable/internal/adapters/logger"
	"go.trai.ch/portable/internal/adapters/shell"
	"go.trai.ch/portable/internal/core/ports"
)

// NodeID is the unique identifier for the lock verifier Graft node.
const NodeID graft.ID = "adapter.lock_verifier"

func init() {
	graft.Register(graft.Node[ports.LockVerifier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, linear.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.LockVerifier, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			reporter, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewVerifier(executor, reporter, log, os.Stdout, os.Stderr), nil
		},
	})
}
