package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/portable/internal/adapters/condalock" //nolint:depguard // Wired in app layer
	"go.trai.ch/portable/internal/adapters/envfile"   //nolint:depguard // Wired in app layer
	"go.trai.ch/portable/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/portable/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/portable/internal/adapters/profiles"  //nolint:depguard // Wired in app layer
	"go.trai.ch/portable/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			envfile.NodeID,
			profiles.NodeID,
			condalock.NodeID,
			linear.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	store, err := graft.Dep[ports.EnvironmentStore](ctx)
	if err != nil {
		return nil, err
	}

	profileStore, err := graft.Dep[ports.ProfileStore](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.LockVerifier](ctx)
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

	return New(store, profileStore, verifier, reporter, log), nil
}
