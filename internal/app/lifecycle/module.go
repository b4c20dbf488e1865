package lifecycle

import "go.uber.org/fx"

// Module provides the lifecycle controller for dependency injection
var Module = fx.Options(
	fx.Provide(NewController),
)
