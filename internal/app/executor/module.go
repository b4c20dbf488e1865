package executor

import "go.uber.org/fx"

// Module provides the executor for dependency injection
var Module = fx.Options(
	fx.Provide(NewExecutor),
)
