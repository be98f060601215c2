package ir

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `name: demo
functions:
  - name: target
    blocks:
      - label: entry
        instructions:
          - {result: "%0", op: const, value: "1"}
          - {op: return, args: ["%0"]}
  - name: main
    params: ["%a"]
    blocks:
      - label: entry
        instructions:
          - {result: "%0", op: call, callee: target}
          - {result: "%1", op: binary, value: add, args: ["%0", "%a"]}
          - {op: return, args: ["%1"]}
`

func TestReadWrite(t *testing.T) {
	m, err := Read(strings.NewReader(demo))
	require.NoError(t, err)
	require.Len(t, m.Functions, 2)

	main := m.Function("main")
	require.NotNil(t, main)
	assert.Equal(t, []string{"%a"}, main.Params)
	assert.True(t, main.Blocks[0].Instructions[0].IsCallTo("target"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestReadRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown field", "name: x\nbogus: 1\n"},
		{"unknown opcode", "name: x\nfunctions:\n  - name: f\n    blocks:\n      - label: e\n        instructions:\n          - {op: jump}\n"},
		{"call without callee", "name: x\nfunctions:\n  - name: f\n    blocks:\n      - label: e\n        instructions:\n          - {op: call}\n"},
		{"duplicate function", "name: x\nfunctions:\n  - {name: f, blocks: []}\n  - {name: f, blocks: []}\n"},
		{"redefined value", "name: x\nfunctions:\n  - name: f\n    blocks:\n      - label: e\n        instructions:\n          - {result: \"%0\", op: const}\n          - {result: \"%0\", op: const}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestValidateWrapsSentinel(t *testing.T) {
	m := &Module{Functions: []*Function{{Name: ""}}}
	assert.True(t, errors.Is(m.Validate(), ErrInvalidModule))
}

func TestReplaceAllUsesWith(t *testing.T) {
	m, err := Read(strings.NewReader(demo))
	require.NoError(t, err)

	main := m.Function("main")
	n := main.ReplaceAllUsesWith("%0", Undef)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{Undef, "%a"}, main.Blocks[0].Instructions[1].Args)
}

func TestBlockInsertErase(t *testing.T) {
	b := &Block{Label: "entry", Instructions: []*Instruction{
		{Op: OpConst, Result: "%0"},
		{Op: OpReturn},
	}}
	b.Insert(1, &Instruction{Op: OpTrap})
	require.Len(t, b.Instructions, 3)
	assert.Equal(t, OpTrap, b.Instructions[1].Op)

	b.Erase(0)
	require.Len(t, b.Instructions, 2)
	assert.Equal(t, OpTrap, b.Instructions[0].Op)
	assert.Equal(t, OpReturn, b.Instructions[1].Op)
}

func TestGetOrCreateFunction(t *testing.T) {
	m := &Module{Name: "m"}
	calls := 0
	build := func(f *Function) {
		calls++
		f.Blocks = []*Block{{Label: "entry", Instructions: []*Instruction{{Op: OpUnreachable}}}}
	}

	f, created := m.GetOrCreateFunction("crash", build)
	assert.True(t, created)
	assert.False(t, f.IsDeclaration())

	g, created := m.GetOrCreateFunction("crash", build)
	assert.False(t, created)
	assert.Same(t, f, g)
	assert.Equal(t, 1, calls)
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{Instruction{Result: "%0", Op: OpCall, Callee: "f", Args: []string{"%a", Undef}}, "%0 = call @f(%a, undef)"},
		{Instruction{Op: OpCall, Callee: "g"}, "call @g()"},
		{Instruction{Result: "%1", Op: OpConst, Value: "7"}, "%1 = const 7"},
		{Instruction{Op: OpReturn, Args: []string{"%1"}}, "return(%1)"},
		{Instruction{Op: OpUnreachable}, "unreachable"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}
