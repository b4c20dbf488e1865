package recorder

import "go.uber.org/fx"

// Module provides the event recorder for dependency injection
var Module = fx.Options(
	fx.Provide(New),
)
