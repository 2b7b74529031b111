// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/postcompile/internal/adapters/config"
	_ "go.trai.ch/postcompile/internal/adapters/loader"
	_ "go.trai.ch/postcompile/internal/adapters/logger"
	_ "go.trai.ch/postcompile/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/postcompile/internal/app"
)
