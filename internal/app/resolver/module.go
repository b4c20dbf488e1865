package resolver

import "go.uber.org/fx"

// Module provides the resolver and its dependencies
var Module = fx.Options(
	fx.Provide(
		NewResolver,
	),
)
