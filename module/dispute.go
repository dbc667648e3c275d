package module

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/onflow/dispute-client/model/dispute"
)

// DisputeClient issues the responses of the interactive verification game.
// Every method submits one transaction and returns once it was sent, without
// waiting for inclusion.
type DisputeClient interface {
	// Report answers a query with the state hash at the midpoint of [idx1, idx2).
	Report(ctx context.Context, id dispute.ChallengeID, idx1, idx2 uint64, mid common.Hash) error

	// PostPhases publishes the phase states of the single step idx1.
	PostPhases(ctx context.Context, id dispute.ChallengeID, idx1 uint64, states dispute.PhaseStates) error

	// SelectErrorPhase points at the first phase the challenger disagrees with.
	SelectErrorPhase(ctx context.Context, id dispute.ChallengeID, idx1 uint64, prior common.Hash, phase dispute.Phase) error

	// CallJudge submits the proof of a selected phase.
	CallJudge(ctx context.Context, args dispute.JudgeArgs) error

	// CallFinalityJudge submits the proof that execution halted.
	CallFinalityJudge(ctx context.Context, args dispute.FinalityArgs) error
}

// TaskClient talks to the task registry contract.
type TaskClient interface {
	// TaskInfo returns the on-chain description of a task.
	TaskInfo(ctx context.Context, id dispute.TaskID) (*dispute.Task, error)

	// VMParameters returns the VM sizing the task must be run with.
	VMParameters(ctx context.Context, id dispute.TaskID) (*dispute.VMParameters, error)

	// QueryChallenge resolves the task a challenge was raised against.
	QueryChallenge(ctx context.Context, id dispute.ChallengeID) (dispute.TaskID, error)

	// Solve submits the result hash and step count of a task.
	Solve(ctx context.Context, id dispute.TaskID, result common.Hash, steps uint64) error

	// FinalizeTask proves the output file belongs to the final state.
	FinalizeTask(ctx context.Context, id dispute.TaskID, file dispute.FileID, proof *dispute.OutputProof) error
}

// FileStore reads and writes files held by the filesystem contract.
type FileStore interface {
	// GetFile downloads name and contents of a file.
	GetFile(ctx context.Context, id dispute.FileID) (*dispute.File, error)

	// SetFile overwrites size and leaves of an existing file.
	SetFile(ctx context.Context, id dispute.FileID, data []byte) error

	// CreateFile uploads a new file and returns its id.
	CreateFile(ctx context.Context, name string, data []byte) (dispute.FileID, error)

	// Root returns the merkle root of a file.
	Root(ctx context.Context, id dispute.FileID) (common.Hash, error)
}
