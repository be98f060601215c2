package bugreducer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/strand/internal/ir"
)

const module = `name: demo
functions:
  - name: target
    blocks:
      - label: entry
        instructions:
          - {result: "%0", op: const, value: "1"}
          - {op: return, args: ["%0"]}
  - name: main
    blocks:
      - label: entry
        instructions:
          - {result: "%0", op: call, callee: target}
          - {result: "%1", op: binary, value: add, args: ["%0", "%0"]}
          - {result: "%2", op: call, callee: target}
          - {op: return, args: ["%1"]}
  - name: other
    blocks:
      - label: entry
        instructions:
          - {op: call, callee: target}
          - {op: return}
`

func load(t *testing.T) *ir.Module {
	t.Helper()
	m, err := ir.Read(strings.NewReader(module))
	require.NoError(t, err)
	return m
}

func ops(b *ir.Block) []string {
	var out []string
	for _, in := range b.Instructions {
		out = append(out, in.String())
	}
	return out
}

func TestParseFailureMode(t *testing.T) {
	tests := []struct {
		input string
		want  FailureMode
	}{
		{"", None},
		{"none", None},
		{"opt-crasher", CrashOptimizer},
		{"miscompile", DeleteCall},
		{"runtime-crasher", SubstituteTrap},
		{"SubstituteTrap", SubstituteTrap},
		{" Miscompile ", DeleteCall},
	}
	for _, tt := range tests {
		got, err := ParseFailureMode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseFailureMode("explode")
	assert.ErrorIs(t, err, ErrUnknownFailureMode)
}

func TestFailureModeText(t *testing.T) {
	var m FailureMode
	require.NoError(t, m.UnmarshalText([]byte("runtime-crasher")))
	assert.Equal(t, SubstituteTrap, m)

	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "runtime-crasher", string(text))
	assert.Equal(t, "FailureMode(9)", FailureMode(9).String())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Target: "f", Mode: DeleteCall}.Validate())
	assert.ErrorIs(t, Config{Target: "f"}.Validate(), ErrTargetWithoutMode)
	assert.ErrorIs(t, Config{Mode: FailureMode(7)}.Validate(), ErrUnknownFailureMode)
}

func TestDisabledPassIsNoop(t *testing.T) {
	for _, cfg := range []Config{{}, {Mode: DeleteCall}, {Target: "target"}, {Target: "missing", Mode: DeleteCall}} {
		m := load(t)
		before := ops(m.Function("main").Blocks[0])
		p := New(cfg)
		assert.False(t, p.RunModule(m))
		assert.False(t, p.Caused())
		assert.Equal(t, before, ops(m.Function("main").Blocks[0]))
	}
}

func TestDeleteCall(t *testing.T) {
	m := load(t)
	p := New(Config{Target: "target", Mode: DeleteCall})

	require.True(t, p.Run(m, m.Function("main")))
	assert.True(t, p.Caused())
	assert.Equal(t, []string{
		"%1 = binary add(undef, undef)",
		"%2 = call @target()",
		"return(%1)",
	}, ops(m.Function("main").Blocks[0]))

	// One mutation per pass instance.
	assert.False(t, p.Run(m, m.Function("other")))
	assert.Equal(t, "call @target()", m.Function("other").Blocks[0].Instructions[0].String())
	assert.Nil(t, m.Function(CrasherFunc))
}

func TestSubstituteTrap(t *testing.T) {
	m := load(t)
	p := New(Config{Target: "target", Mode: SubstituteTrap})

	require.True(t, p.RunModule(m))
	assert.Equal(t, []string{
		"call @" + CrasherFunc + "()",
		"%1 = binary add(undef, undef)",
		"%2 = call @target()",
		"return(%1)",
	}, ops(m.Function("main").Blocks[0]))

	crasher := m.Function(CrasherFunc)
	require.NotNil(t, crasher)
	assert.Equal(t, []string{"builtin_trap", "unreachable"}, ops(crasher.Blocks[0]))
	assert.Equal(t, "call @target()", m.Function("other").Blocks[0].Instructions[0].String())
	assert.NoError(t, m.Validate())
}

func TestSubstituteTrapReusesCrasher(t *testing.T) {
	m := load(t)
	m.Functions = append(m.Functions, &ir.Function{Name: CrasherFunc})

	p := New(Config{Target: "target", Mode: SubstituteTrap})
	require.True(t, p.Run(m, m.Function("other")))

	n := 0
	for _, fn := range m.Functions {
		if fn.Name == CrasherFunc {
			n++
			assert.False(t, fn.IsDeclaration())
		}
	}
	assert.Equal(t, 1, n)
}

func TestCrashOptimizer(t *testing.T) {
	m := load(t)
	var got error
	p := New(Config{Target: "target", Mode: CrashOptimizer}, WithAbort(func(err error) { got = err }))

	assert.False(t, p.Run(m, m.Function("main")))
	var crash *CrashError
	require.True(t, errors.As(got, &crash))
	assert.Equal(t, "main", crash.Function)
	assert.Equal(t, "target", crash.Target)
	assert.ErrorIs(t, got, ErrInjectedCrash)
	assert.True(t, p.Caused())
}

func TestCrashOptimizerPanicsByDefault(t *testing.T) {
	m := load(t)
	p := New(Config{Target: "target", Mode: CrashOptimizer})
	assert.PanicsWithError(t, (&CrashError{Function: "main", Target: "target"}).Error(), func() {
		p.Run(m, m.Function("main"))
	})
}

func TestPassLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := load(t)
	p := New(Config{Target: "target", Mode: SubstituteTrap}, WithLogger(zap.New(core)))
	require.True(t, p.RunModule(m))

	entries := logs.FilterMessage("Substituted trap for target call").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "main", fields["function"])
	assert.Equal(t, "runtime-crasher", fields["mode"])
	assert.NotEmpty(t, fields["run"])
	assert.Equal(t, 1, logs.FilterMessage("Runtime crasher function").Len())
}
