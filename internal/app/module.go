package app

import (
	"go.uber.org/fx"

	"shiki/internal/app/cli"
	"shiki/internal/app/executor"
	"shiki/internal/app/filemonitor"
	"shiki/internal/app/generator"
	"shiki/internal/app/lifecycle"
	"shiki/internal/app/recorder"
	"shiki/internal/app/report"
	"shiki/internal/app/resolver"
	"shiki/internal/app/session"
	"shiki/internal/app/terminator"
	"shiki/internal/app/tracker"
	"shiki/internal/app/worker"
	"shiki/internal/app/workflow"
	"shiki/internal/config/logger"
)

var Module = fx.Options(
	cli.Module,
	executor.Module,
	filemonitor.Module,
	generator.Module,
	lifecycle.Module,
	logger.Module,
	recorder.Module,
	report.Module,
	resolver.Module,
	session.Module,
	terminator.Module,
	tracker.Module,
	worker.Module,
	workflow.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
