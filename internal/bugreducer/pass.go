// Package bugreducer is a diagnostic optimizer pass that injects a
// deliberate failure when it meets a call to a chosen function. It gives bug
// reduction tooling a known-bad pass to bisect towards.
package bugreducer

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/strand/internal/ir"
)

// CrasherFunc is the name of the function SubstituteTrap calls instead of
// the target. Its body traps.
const CrasherFunc = "bug_reducer_runtime_crasher_func"

// Config selects the target function and what to do on reaching a call to
// it.
type Config struct {
	// Target is the callee name to look for. Empty disables the pass.
	Target string
	// Mode is the failure to inject.
	Mode FailureMode
}

// Enabled reports whether the pass does anything.
func (c Config) Enabled() bool {
	return c.Target != "" && c.Mode != None
}

// Validate reports configurations that cannot do what they say.
func (c Config) Validate() error {
	if c.Target != "" && c.Mode == None {
		return ErrTargetWithoutMode
	}
	if c.Mode > SubstituteTrap {
		return ErrUnknownFailureMode
	}
	return nil
}

// Option configures a Pass.
type Option func(*Pass)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pass) {
		p.logger = logger
	}
}

// WithAbort sets the function called for CrashOptimizer. The default panics
// with the *CrashError.
func WithAbort(abort func(error)) Option {
	return func(p *Pass) {
		p.abort = abort
	}
}

// Pass is one instance of the diagnostic pass. It injects at most one
// failure over its lifetime, however many functions it is run on.
type Pass struct {
	cfg    Config
	logger *zap.Logger
	abort  func(error)
	caused bool
}

// New creates a Pass.
func New(cfg Config, opts ...Option) *Pass {
	p := &Pass{
		cfg:    cfg,
		logger: zap.NewNop(),
		abort:  func(err error) { panic(err) },
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(
		zap.String("pass", "bug-reducer-tester"),
		zap.String("run", uuid.NewString()),
	)
	return p
}

// Name returns the pass name.
func (p *Pass) Name() string {
	return "Bug Reducer Tester"
}

// Caused reports whether the pass has injected its failure.
func (p *Pass) Caused() bool {
	return p.caused
}

// Run scans fn, a function of m, for the first call to the target and
// injects the configured failure there. It reports whether fn was changed.
// Instructions after the injection point are not inspected.
func (p *Pass) Run(m *ir.Module, fn *ir.Function) bool {
	if !p.cfg.Enabled() || p.caused {
		return false
	}

	for _, b := range fn.Blocks {
		for i, in := range b.Instructions {
			if !in.IsCallTo(p.cfg.Target) {
				continue
			}
			log := p.logger.With(
				zap.String("function", fn.Name),
				zap.String("block", b.Label),
				zap.Int("index", i),
				zap.Stringer("mode", p.cfg.Mode),
			)

			switch p.cfg.Mode {
			case CrashOptimizer:
				log.Error("Found the target")
				p.caused = true
				p.abort(&CrashError{Function: fn.Name, Target: p.cfg.Target})
				return false
			case DeleteCall:
				p.deleteCall(fn, b, i)
				log.Info("Deleted target call")
			case SubstituteTrap:
				crasher := p.crasherFunc(m)
				log.Debug("Runtime crasher function", zap.String("crasher", crasher.Name))
				b.Insert(i, &ir.Instruction{Op: ir.OpCall, Callee: crasher.Name})
				p.deleteCall(fn, b, i+1)
				log.Info("Substituted trap for target call")
			}
			p.caused = true
			return true
		}
	}
	return false
}

// RunModule runs the pass over every function of m with a body and reports
// whether any was changed.
func (p *Pass) RunModule(m *ir.Module) bool {
	changed := false
	for _, fn := range m.Functions {
		if fn.IsDeclaration() {
			continue
		}
		if p.Run(m, fn) {
			changed = true
		}
	}
	return changed
}

func (p *Pass) deleteCall(fn *ir.Function, b *ir.Block, i int) {
	if res := b.Instructions[i].Result; res != "" {
		fn.ReplaceAllUsesWith(res, ir.Undef)
	}
	b.Erase(i)
}

// crasherFunc returns the trapping function, adding it to m if needed.
func (p *Pass) crasherFunc(m *ir.Module) *ir.Function {
	fn, _ := m.GetOrCreateFunction(CrasherFunc, nil)
	if fn.IsDeclaration() {
		fn.Blocks = []*ir.Block{{
			Label: "entry",
			Instructions: []*ir.Instruction{
				{Op: ir.OpTrap},
				{Op: ir.OpUnreachable},
			},
		}}
	}
	return fn
}
