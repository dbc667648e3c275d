package module

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/onflow/dispute-client/model/dispute"
)

// ExecutionEngine runs the interpreter and merkleizer on a task program. All
// methods are deterministic for a given program: repeating a call yields the
// same answer.
type ExecutionEngine interface {
	// Initialize computes the initial state hash of the program.
	Initialize(ctx context.Context, prog dispute.Program) (common.Hash, error)

	// Execute runs the program to completion.
	Execute(ctx context.Context, prog dispute.Program) (*dispute.ExecutionResult, error)

	// Location returns the state hash after the given number of steps.
	Location(ctx context.Context, prog dispute.Program, step uint64) (common.Hash, error)

	// Step returns the phase states and per-phase proofs of a single step.
	Step(ctx context.Context, prog dispute.Program, step uint64) (*dispute.StepData, error)

	// Finality returns the proof that the machine halted after the given number of steps.
	Finality(ctx context.Context, prog dispute.Program, steps uint64) (*dispute.FinalityProof, error)

	// OutputProof returns the final VM and the location proof of the output file.
	OutputProof(ctx context.Context, prog dispute.Program) (*dispute.OutputProof, error)
}
