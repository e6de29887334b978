package envfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/portable/internal/core/ports"
)

// NodeID is the unique identifier for the environment store Graft node.
const NodeID graft.ID = "adapter.environment_store"

func init() {
	graft.Register(graft.Node[ports.EnvironmentStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EnvironmentStore, error) {
			return NewStore(), nil
		},
	})
}
