package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/strand/internal/bugreducer"
	"github.com/dshills/strand/internal/ir"
)

type bugReduceOptions struct {
	target      string
	failureKind string
}

func newBugReduceCmd(a *app) *cobra.Command {
	opts := &bugReduceOptions{}
	cmd := &cobra.Command{
		Use:   "bugreduce module.yaml",
		Short: "Run the bug reducer diagnostic pass over an IR module",
		Long: `Runs the bug reducer tester pass over every function of the module and
prints the resulting module. On the first call to --target the pass injects
the failure selected by --failure-kind:

  opt-crasher      abort the optimizer
  miscompile       delete the call, replacing its uses with undef
  runtime-crasher  replace the call with a call to a trapping function

An empty target leaves the module unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("target") {
				a.cfg.BugReducer.Target = opts.target
			}
			if flags.Changed("failure-kind") {
				a.cfg.BugReducer.FailureKind = opts.failureKind
			}
			return a.runBugReduce(args[0])
		},
	}
	cmd.Flags().StringVar(&opts.target, "target", "", "function whose call sites trigger the failure")
	cmd.Flags().StringVar(&opts.failureKind, "failure-kind", "", "opt-crasher, miscompile or runtime-crasher")
	return cmd
}

func (a *app) runBugReduce(path string) error {
	cfg, err := a.cfg.BugReducerConfig()
	if err != nil {
		return err
	}
	m, err := ir.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	pass := bugreducer.New(cfg, bugreducer.WithLogger(a.logger))
	changed := pass.RunModule(m)
	a.logger.Info("Bug reducer finished",
		zap.String("module", m.Name),
		zap.String("target", cfg.Target),
		zap.Stringer("mode", cfg.Mode),
		zap.Bool("changed", changed))

	return ir.Write(a.stdout, m)
}
