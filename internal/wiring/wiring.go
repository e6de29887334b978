// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/portable/internal/adapters/condalock"
	_ "go.trai.ch/portable/internal/adapters/envfile"
	_ "go.trai.ch/portable/internal/adapters/linear"
	_ "go.trai.ch/portable/internal/adapters/logger"
	_ "go.trai.ch/portable/internal/adapters/profiles"
	_ "go.trai.ch/portable/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/portable/internal/app"
)
