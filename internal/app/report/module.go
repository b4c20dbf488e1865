package report

import "go.uber.org/fx"

// Module provides the reporter and its dependencies
var Module = fx.Options(
	fx.Provide(
		NewReporter,
	),
)
