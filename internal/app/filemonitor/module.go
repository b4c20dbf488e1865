package filemonitor

import "go.uber.org/fx"

// Module provides the file monitor for dependency injection
var Module = fx.Options(
	fx.Provide(NewMonitor),
)
