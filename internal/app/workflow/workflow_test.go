package workflow

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shiki/internal/app/errors"
	"shiki/internal/app/lifecycle"
	"shiki/internal/app/recorder"
	"shiki/internal/app/tracker"
	"shiki/internal/config"
	"shiki/internal/config/logger"
)

type fixture struct {
	cfg   *config.Config
	ctrl  *lifecycle.MockController
	rec   recorder.Recorder
	track tracker.Tracker
	w     Workflow
}

// newFixture builds a workflow over two init-mode services so validation
// passes without control scripts on disk
func newFixture(t *testing.T) *fixture {
	t.Helper()

	mockCtrl := gomock.NewController(t)

	cfg := config.DefaultConfig()
	cfg.Services["database"] = &config.Service{Control: config.ControlInit, Unit: "database.service"}
	cfg.Services["broker"] = &config.Service{Control: config.ControlInit, Unit: "broker.service"}
	cfg.ApplyDefaults()

	log := logger.NewLoggerWithOutput(cfg, io.Discard)
	rec := recorder.New(log)
	track := tracker.NewTracker()
	ctrl := lifecycle.NewMockController(mockCtrl)

	return &fixture{
		cfg:   cfg,
		ctrl:  ctrl,
		rec:   rec,
		track: track,
		w:     NewWorkflow(cfg, ctrl, rec, track, log),
	}
}

func Test_Run_StartAllInOrder(t *testing.T) {
	f := newFixture(t)

	first := f.ctrl.EXPECT().Start(gomock.Any(), "database", f.cfg.Services["database"]).Return(nil)
	f.ctrl.EXPECT().Start(gomock.Any(), "broker", f.cfg.Services["broker"]).Return(nil).After(first)

	meta, events := f.w.Run(context.Background(), []string{"database", "broker"}, config.ActionStart)

	assert.Equal(t, StatusSuccess, meta.Status)
	assert.NotEmpty(t, meta.ID)
	assert.False(t, meta.EndTime.IsZero())
	assert.Empty(t, events)

	results := f.track.All()
	require.Len(t, results, 2)
	assert.Equal(t, tracker.StatusSucceeded, results[0].Status())
	assert.Equal(t, tracker.StatusSucceeded, results[1].Status())
}

func Test_Run_FailureContinuesByDefault(t *testing.T) {
	f := newFixture(t)

	f.ctrl.EXPECT().Start(gomock.Any(), "database", gomock.Any()).Return(errors.ErrStartVerificationFailed)
	f.ctrl.EXPECT().Start(gomock.Any(), "broker", gomock.Any()).Return(nil)

	meta, _ := f.w.Run(context.Background(), []string{"database", "broker"}, config.ActionStart)

	assert.Equal(t, StatusFailed, meta.Status)

	results := f.track.All()
	require.Len(t, results, 2)
	assert.Equal(t, tracker.StatusFailed, results[0].Status())
	assert.ErrorIs(t, results[0].Err(), errors.ErrStartVerificationFailed)
	assert.Equal(t, tracker.StatusSucceeded, results[1].Status())
}

func Test_Run_AbortOnFirstFailure(t *testing.T) {
	f := newFixture(t)
	f.cfg.Workflow.ContinueOnError = false

	// No expectation for broker: reaching it would fail the test
	f.ctrl.EXPECT().Stop(gomock.Any(), "database", gomock.Any()).
		Return(lifecycle.StopFailed, errors.ErrStopVerificationFailed)

	meta, _ := f.w.Run(context.Background(), []string{"database", "broker"}, config.ActionStop)

	assert.Equal(t, StatusFailed, meta.Status)
	assert.Len(t, f.track.All(), 1)
}

func Test_Run_InvalidAction(t *testing.T) {
	f := newFixture(t)

	meta, events := f.w.Run(context.Background(), []string{"database"}, "restart")

	assert.Equal(t, StatusFailed, meta.Status)

	require.Len(t, events, 1)
	assert.Equal(t, recorder.KindFailure, events[0].Kind)
	assert.Contains(t, events[0].Error, "restart")
}

func Test_Run_ValidationFailureSkipsController(t *testing.T) {
	f := newFixture(t)
	f.cfg.Services["database"].Control = config.ControlScript
	f.cfg.Services["database"].Script = "/nonexistent/control.sh"

	f.ctrl.EXPECT().Start(gomock.Any(), "broker", gomock.Any()).Return(nil)

	meta, events := f.w.Run(context.Background(), []string{"database", "broker"}, config.ActionStart)

	assert.Equal(t, StatusFailed, meta.Status)

	require.NotEmpty(t, events)
	assert.Equal(t, recorder.KindFailure, events[0].Kind)
	assert.Equal(t, "database", events[0].Service)
}

func Test_Run_UnknownServiceFails(t *testing.T) {
	f := newFixture(t)

	meta, _ := f.w.Run(context.Background(), []string{"nonexistent"}, config.ActionStart)

	assert.Equal(t, StatusFailed, meta.Status)

	results := f.track.All()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err(), errors.ErrServiceNotFound)
}

func Test_Run_StatusNeverFailsWorkflow(t *testing.T) {
	f := newFixture(t)

	f.ctrl.EXPECT().Status(gomock.Any(), "database", gomock.Any()).
		Return(lifecycle.StatusReport{Running: true}, nil)
	f.ctrl.EXPECT().Status(gomock.Any(), "broker", gomock.Any()).
		Return(lifecycle.StatusReport{}, errors.New("query failed"))

	meta, _ := f.w.Run(context.Background(), []string{"database", "broker"}, config.ActionStatus)

	assert.Equal(t, StatusSuccess, meta.Status)

	for _, r := range f.track.All() {
		assert.Equal(t, tracker.StatusSucceeded, r.Status())
	}
}

func Test_Run_CanceledContext(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	meta, _ := f.w.Run(ctx, []string{"database", "broker"}, config.ActionStart)

	assert.Equal(t, StatusFailed, meta.Status)
	assert.Empty(t, f.track.All())
}

func Test_Run_SkippedShortCircuitTracked(t *testing.T) {
	f := newFixture(t)

	f.ctrl.EXPECT().Start(gomock.Any(), "database", gomock.Any()).
		DoAndReturn(func(context.Context, string, *config.Service) error {
			f.rec.Record(recorder.TaskStart("database", config.ActionStart))
			f.rec.Record(recorder.TaskEnd("database", config.ActionStart, true, true, time.Millisecond))

			return nil
		})

	_, _ = f.w.Run(context.Background(), []string{"database"}, config.ActionStart)

	result, exists := f.track.Get("database")
	require.True(t, exists)
	assert.True(t, result.Skipped())
	assert.Equal(t, tracker.StatusSucceeded, result.Status())
}

func Test_Metadata_FinishIsTerminal(t *testing.T) {
	meta := newMetadata(config.ActionStart)

	assert.Equal(t, StatusRunning, meta.Status)

	meta.finish(false)
	end := meta.EndTime

	assert.Equal(t, StatusSuccess, meta.Status)

	// A second finish must not reopen or flip the run
	meta.finish(true)

	assert.Equal(t, StatusSuccess, meta.Status)
	assert.Equal(t, end, meta.EndTime)
}
