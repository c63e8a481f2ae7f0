// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mono/internal/adapters/bundler"
	_ "go.trai.ch/mono/internal/adapters/config"
	_ "go.trai.ch/mono/internal/adapters/logger"
	_ "go.trai.ch/mono/internal/adapters/registry"
	_ "go.trai.ch/mono/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/mono/internal/app"
)
