// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/elixirpack/internal/adapters/archive"
	_ "go.trai.ch/elixirpack/internal/adapters/config"
	_ "go.trai.ch/elixirpack/internal/adapters/download"
	_ "go.trai.ch/elixirpack/internal/adapters/fs"
	_ "go.trai.ch/elixirpack/internal/adapters/logger"
	_ "go.trai.ch/elixirpack/internal/adapters/shell"
	_ "go.trai.ch/elixirpack/internal/adapters/state"
	_ "go.trai.ch/elixirpack/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/elixirpack/internal/app"
	_ "go.trai.ch/elixirpack/internal/engine/cache"
	_ "go.trai.ch/elixirpack/internal/engine/pipeline"
)
