package workflow

import "go.uber.org/fx"

// Module provides the workflow runner and its dependencies
var Module = fx.Options(
	fx.Provide(
		NewWorkflow,
	),
)
