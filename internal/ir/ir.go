// Package ir is a minimal instruction representation: modules of functions
// made of labelled blocks of instructions in SSA form. Values are named by
// the instruction that defines them ("%0", "%sum"); Undef names the
// undefined value.
//
// Modules are persisted as YAML:
//
//	name: demo
//	functions:
//	  - name: main
//	    blocks:
//	      - label: entry
//	        instructions:
//	          - {result: "%0", op: call, callee: target}
//	          - {op: return, args: ["%0"]}
package ir

import (
	"fmt"
	"strings"
)

// Undef is the operand name of the undefined value.
const Undef = "undef"

// Opcode identifies an instruction kind.
type Opcode string

// Opcodes.
const (
	OpConst       Opcode = "const"
	OpCall        Opcode = "call"
	OpBinary      Opcode = "binary"
	OpReturn      Opcode = "return"
	OpTrap        Opcode = "builtin_trap"
	OpUnreachable Opcode = "unreachable"
)

var knownOpcodes = map[Opcode]bool{
	OpConst:       true,
	OpCall:        true,
	OpBinary:      true,
	OpReturn:      true,
	OpTrap:        true,
	OpUnreachable: true,
}

// IsTerminator reports whether op ends a block.
func (op Opcode) IsTerminator() bool {
	return op == OpReturn || op == OpUnreachable
}

// Instruction is a single operation. Result is empty for instructions that
// produce no value.
type Instruction struct {
	Result string   `yaml:"result,omitempty"`
	Op     Opcode   `yaml:"op"`
	Callee string   `yaml:"callee,omitempty"`
	Value  string   `yaml:"value,omitempty"`
	Args   []string `yaml:"args,omitempty,flow"`
}

// IsCallTo reports whether the instruction calls the named function.
func (in *Instruction) IsCallTo(name string) bool {
	return in.Op == OpCall && in.Callee == name
}

// String returns the textual form of the instruction.
func (in *Instruction) String() string {
	var sb strings.Builder
	if in.Result != "" {
		sb.WriteString(in.Result)
		sb.WriteString(" = ")
	}
	sb.WriteString(string(in.Op))
	if in.Callee != "" {
		sb.WriteString(" @")
		sb.WriteString(in.Callee)
	}
	if in.Value != "" {
		sb.WriteString(" ")
		sb.WriteString(in.Value)
	}
	if in.Op == OpCall || len(in.Args) > 0 {
		sb.WriteString("(")
		sb.WriteString(strings.Join(in.Args, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Block is a labelled straight-line sequence of instructions.
type Block struct {
	Label        string         `yaml:"label"`
	Instructions []*Instruction `yaml:"instructions"`
}

// Insert inserts in before position i.
func (b *Block) Insert(i int, in *Instruction) {
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[i+1:], b.Instructions[i:])
	b.Instructions[i] = in
}

// Erase removes the instruction at position i.
func (b *Block) Erase(i int) {
	copy(b.Instructions[i:], b.Instructions[i+1:])
	b.Instructions[len(b.Instructions)-1] = nil
	b.Instructions = b.Instructions[:len(b.Instructions)-1]
}

// Function is a named list of blocks. The first block is the entry.
type Function struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty,flow"`
	Blocks []*Block `yaml:"blocks"`
}

// IsDeclaration reports whether the function has no body.
func (f *Function) IsDeclaration() bool {
	return len(f.Blocks) == 0
}

// ReplaceAllUsesWith rewrites every operand naming value to repl and
// returns the number of operands rewritten.
func (f *Function) ReplaceAllUsesWith(value, repl string) int {
	n := 0
	for _, b := range f.Blocks {
		for _, in := range b.Instructions {
			for i, arg := range in.Args {
				if arg == value {
					in.Args[i] = repl
					n++
				}
			}
		}
	}
	return n
}

// Module is a set of functions.
type Module struct {
	Name      string      `yaml:"name"`
	Functions []*Function `yaml:"functions"`
}

// Function returns the named function, or nil.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GetOrCreateFunction returns the named function, creating it with init if
// the module has none. It reports whether the function was created.
func (m *Module) GetOrCreateFunction(name string, init func(*Function)) (*Function, bool) {
	if f := m.Function(name); f != nil {
		return f, false
	}
	f := &Function{Name: name}
	if init != nil {
		init(f)
	}
	m.Functions = append(m.Functions, f)
	return f, true
}

// Validate checks structural well-formedness: unique function names, known
// opcodes, calls with a callee and SSA results defined once per function.
func (m *Module) Validate() error {
	seen := make(map[string]bool, len(m.Functions))
	for _, f := range m.Functions {
		if f.Name == "" {
			return fmt.Errorf("%w: function with empty name", ErrInvalidModule)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate function %q", ErrInvalidModule, f.Name)
		}
		seen[f.Name] = true
		if err := f.validate(); err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
	}
	return nil
}

func (f *Function) validate() error {
	defined := make(map[string]bool)
	for _, p := range f.Params {
		defined[p] = true
	}
	for _, b := range f.Blocks {
		for i, in := range b.Instructions {
			if !knownOpcodes[in.Op] {
				return fmt.Errorf("%w: block %q instruction %d: unknown opcode %q", ErrInvalidModule, b.Label, i, in.Op)
			}
			if in.Op == OpCall && in.Callee == "" {
				return fmt.Errorf("%w: block %q instruction %d: call without callee", ErrInvalidModule, b.Label, i)
			}
			if in.Result == "" {
				continue
			}
			if in.Result == Undef || defined[in.Result] {
				return fmt.Errorf("%w: block %q instruction %d: %q redefined", ErrInvalidModule, b.Label, i, in.Result)
			}
			defined[in.Result] = true
		}
	}
	return nil
}
