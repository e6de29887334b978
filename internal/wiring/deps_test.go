package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/portable/internal/app"
	_ "go.trai.ch/portable/internal/wiring"
)

// TestGraftGraph resolves the full node graph the way main does.
func TestGraftGraph(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
