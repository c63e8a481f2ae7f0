package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mono/internal/adapters/bundler"
	"go.trai.ch/mono/internal/adapters/config"
	"go.trai.ch/mono/internal/adapters/logger"
	"go.trai.ch/mono/internal/adapters/registry"
	"go.trai.ch/mono/internal/adapters/watcher"
	"go.trai.ch/mono/internal/core/ports"
)

// Components aggregates the root objects resolved from the Graft graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			registry.NodeID,
			bundler.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			scanner, err := graft.Dep[*registry.Scanner](ctx)
			if err != nil {
				return nil, err
			}
			bund, err := graft.Dep[ports.Bundler](ctx)
			if err != nil {
				return nil, err
			}
			fsw, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    New(loader, scanner, bund, fsw, log),
				Logger: log,
			}, nil
		},
	})
}
