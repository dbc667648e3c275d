package dispute

import (
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
)

// CodeType is the format of a task's code file.
type CodeType uint8

const (
	CodeWAST CodeType = iota
	CodeWASM
)

func (c CodeType) String() string {
	if c == CodeWASM {
		return "wasm"
	}
	return "wast"
}

// Fault makes the interpreter deviate from the honest computation. It exists to
// exercise dispute handling against a deliberately wrong solver.
type Fault struct {
	// ErrorStep is the step at which a wrong state is produced.
	ErrorStep uint64
}

// Program locates the materialized code and input of a task on local disk.
type Program struct {
	Dir        string
	CodeFile   string
	CodeType   CodeType
	InputFiles []string
	Params     VMParameters
	Fault      *Fault
}

// CodePath returns the absolute path of the code file.
func (p Program) CodePath() string {
	return filepath.Join(p.Dir, p.CodeFile)
}

// Session is the per-task context of a task this process is solving. It replaces
// process-wide task state: every operation receives the session it acts for.
type Session struct {
	TaskID  TaskID
	Actor   common.Address
	Program Program
	// Steps and Result are known once the task was executed.
	Steps  uint64
	Result common.Hash
}

// Copy returns a value copy of the session.
func (s *Session) Copy() *Session {
	cp := *s
	cp.Program.InputFiles = append([]string(nil), s.Program.InputFiles...)
	return &cp
}

// ExecutionResult is the outcome of running a task to completion.
type ExecutionResult struct {
	Result common.Hash
	Steps  uint64
	// Output is the raw output the task produced, empty if it produced none.
	Output []byte
}
