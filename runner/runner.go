package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/chisel/chisel"
	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/errors"
	"github.com/wippyai/chisel/wasm"
)

// ResultsHeader is printed once the binary has been decoded, before the
// first status line.
const ResultsHeader = "========== RESULTS =========="

// Options configures a Runner.
type Options struct {
	// Registry resolves check names. Defaults to chisel.DefaultRegistry().
	Registry *chisel.Registry
	// Out receives the results header and status lines. Defaults to io.Discard.
	Out io.Writer
	// Status renders status lines. Defaults to chisel.PlainStatus.
	Status chisel.StatusFunc
	// OnStage is called on every stage transition.
	OnStage func(Stage)
	// Strict additionally compiles the binary with wazero before any check runs.
	Strict bool
}

// Runner executes a resolved configuration. Runs are synchronous; a Runner
// may be reused for several runs but not concurrently.
type Runner struct {
	opts       Options
	dispatcher *chisel.Dispatcher
	stage      Stage
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Registry == nil {
		opts.Registry = chisel.DefaultRegistry()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Runner{
		opts:       opts,
		dispatcher: chisel.NewDispatcher(opts.Registry, opts.Out).WithStatus(opts.Status),
	}
}

// Stage returns the stage the last run reached.
func (r *Runner) Stage() Stage {
	return r.stage
}

// RunFile loads and resolves the configuration at path, then runs it.
func (r *Runner) RunFile(ctx context.Context, path string) (*config.ChiselContext, Report, error) {
	r.enter(StageIdle)

	r.enter(StageLoadingConfig)
	doc, err := config.Load(path)
	if err != nil {
		return nil, Report{}, r.fail(err)
	}

	r.enter(StageResolvingRuleset)
	cc, err := config.Resolve(doc)
	if err != nil {
		return nil, Report{}, r.fail(err)
	}

	report, err := r.execute(ctx, cc)
	return cc, report, err
}

// Run reads and decodes the target binary of cc and runs every configured
// check against it in order. An error means no check ran.
func (r *Runner) Run(ctx context.Context, cc *config.ChiselContext) (Report, error) {
	r.enter(StageIdle)
	return r.execute(ctx, cc)
}

func (r *Runner) execute(ctx context.Context, cc *config.ChiselContext) (Report, error) {
	r.enter(StageReadingBinary)
	data, err := os.ReadFile(cc.File)
	if err != nil {
		return Report{}, r.fail(errors.New(errors.KindBinaryOpenFailed).Path(cc.File).Cause(err).Build())
	}

	r.enter(StageDecodingArtifact)
	module, err := decode(ctx, data, r.opts.Strict)
	if err != nil {
		return Report{}, r.fail(errors.New(errors.KindArtifactDecodeFailed).Path(cc.File).Cause(err).Build())
	}

	r.enter(StageExecutingModules)
	fmt.Fprintln(r.opts.Out, ResultsHeader)
	verdicts := make([]chisel.Verdict, 0, len(cc.Modules))
	for _, mc := range cc.Modules {
		verdicts = append(verdicts, r.dispatcher.Dispatch(mc, module))
	}

	r.enter(StageReporting)
	report := NewReport(verdicts)
	Logger().Info("run completed",
		zap.String("ruleset", cc.Ruleset),
		zap.String("file", cc.File),
		zap.Int("checks", len(report.Verdicts)),
		zap.Int("failed", len(report.Failed())),
		zap.Bool("overall", report.Overall))

	r.enter(StageDone)
	return report, nil
}

func decode(ctx context.Context, data []byte, strict bool) (*wasm.Module, error) {
	module, err := wasm.ParseModule(data)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := compile(ctx, data); err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
	}
	return module, nil
}

// compile runs the full wazero validation over data.
func compile(ctx context.Context, data []byte) error {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	cm, err := rt.CompileModule(ctx, data)
	if err != nil {
		return err
	}
	return cm.Close(ctx)
}

func (r *Runner) enter(s Stage) {
	if r.stage.Terminal() && s != StageIdle {
		Logger().DPanic("transition out of terminal stage", zap.Stringer("from", r.stage), zap.Stringer("to", s))
	}
	r.stage = s
	Logger().Debug("stage", zap.Stringer("stage", s))
	if r.opts.OnStage != nil {
		r.opts.OnStage(s)
	}
}

func (r *Runner) fail(err error) error {
	from := r.stage
	if !from.CanAbort() {
		Logger().DPanic("abort outside an abortable stage", zap.Stringer("stage", from), zap.Error(err))
	}
	r.enter(StageErrored)
	Logger().Error("run aborted", zap.Stringer("stage", from), zap.Error(err))
	return err
}
