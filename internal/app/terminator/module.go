package terminator

import "go.uber.org/fx"

// Module provides the terminator for dependency injection
var Module = fx.Options(
	fx.Provide(NewTerminator),
)
