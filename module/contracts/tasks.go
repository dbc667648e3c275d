package contracts

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/dispatcher"
)

const (
	methodGetTaskInfo     = "getTaskInfo"
	methodGetVMParameters = "getVMParameters"
	methodQueryChallenge  = "queryChallenge"
	methodSolve           = "solve"
	methodFinalizeTask    = "finalizeTask"
)

// Tasks is the client of the task registry contract.
type Tasks struct {
	log        zerolog.Logger
	contract   dispatcher.Contract
	dispatcher *dispatcher.Dispatcher
}

var _ module.TaskClient = (*Tasks)(nil)

func NewTasks(log zerolog.Logger, contract dispatcher.Contract, dispatcher *dispatcher.Dispatcher) *Tasks {
	return &Tasks{
		log:        log.With().Str("contract", "tasks").Logger(),
		contract:   contract,
		dispatcher: dispatcher,
	}
}

func (t *Tasks) TaskInfo(ctx context.Context, id dispute.TaskID) (*dispute.Task, error) {
	out, err := t.dispatcher.Call(ctx, t.contract, methodGetTaskInfo, uint256(uint64(id)))
	if err != nil {
		return nil, fmt.Errorf("could not get info of task %d: %w", id, err)
	}
	if err := outputs(methodGetTaskInfo, out, 6); err != nil {
		return nil, err
	}

	task := &dispute.Task{ID: id}
	if task.Giver, err = asAddress(methodGetTaskInfo, out[0]); err != nil {
		return nil, err
	}
	code, err := asHash(methodGetTaskInfo, out[1])
	if err != nil {
		return nil, err
	}
	input, err := asHash(methodGetTaskInfo, out[2])
	if err != nil {
		return nil, err
	}
	task.CodeRef, task.InputRef = dispute.FileID(code), dispute.FileID(input)
	if task.InitHash, err = asHash(methodGetTaskInfo, out[3]); err != nil {
		return nil, err
	}
	if task.ResultHash, err = asHash(methodGetTaskInfo, out[4]); err != nil {
		return nil, err
	}
	if task.Steps, err = asUint64(methodGetTaskInfo, out[5]); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *Tasks) VMParameters(ctx context.Context, id dispute.TaskID) (*dispute.VMParameters, error) {
	out, err := t.dispatcher.Call(ctx, t.contract, methodGetVMParameters, uint256(uint64(id)))
	if err != nil {
		return nil, fmt.Errorf("could not get vm parameters of task %d: %w", id, err)
	}
	if err := outputs(methodGetVMParameters, out, 5); err != nil {
		return nil, err
	}

	var sizes [5]uint8
	for i := range sizes {
		sizes[i], err = asUint8(methodGetVMParameters, out[i])
		if err != nil {
			return nil, err
		}
	}
	return &dispute.VMParameters{
		StackSize:   sizes[0],
		MemorySize:  sizes[1],
		CallSize:    sizes[2],
		GlobalsSize: sizes[3],
		TableSize:   sizes[4],
	}, nil
}

func (t *Tasks) QueryChallenge(ctx context.Context, id dispute.ChallengeID) (dispute.TaskID, error) {
	out, err := t.dispatcher.Call(ctx, t.contract, methodQueryChallenge, [32]byte(id))
	if err != nil {
		return 0, fmt.Errorf("could not query challenge %x: %w", id, err)
	}
	if err := outputs(methodQueryChallenge, out, 1); err != nil {
		return 0, err
	}
	task, err := asUint64(methodQueryChallenge, out[0])
	if err != nil {
		return 0, err
	}
	return dispute.TaskID(task), nil
}

func (t *Tasks) Solve(ctx context.Context, id dispute.TaskID, result common.Hash, steps uint64) error {
	tx, err := t.dispatcher.Submit(ctx, t.contract, methodSolve, uint256(uint64(id)), [32]byte(result), uint256(steps))
	if err != nil {
		return fmt.Errorf("could not solve task %d: %w", id, err)
	}
	t.log.Info().
		Uint64("task_id", uint64(id)).
		Str("result", result.Hex()).
		Uint64("steps", steps).
		Str("tx", tx.Hash().Hex()).
		Msg("solution submitted")
	return nil
}

func (t *Tasks) FinalizeTask(ctx context.Context, id dispute.TaskID, file dispute.FileID, proof *dispute.OutputProof) error {
	tx, err := t.dispatcher.Submit(ctx, t.contract, methodFinalizeTask,
		uint256(uint64(id)),
		[32]byte(file),
		rootArray(proof.VM.Roots()),
		uint256Array(proof.VM.Pointers()),
		bytes32s(proof.List),
		uint256(proof.Location),
	)
	if err != nil {
		return fmt.Errorf("could not finalize task %d: %w", id, err)
	}
	t.log.Info().
		Uint64("task_id", uint64(id)).
		Str("file", file.Hex()).
		Str("tx", tx.Hash().Hex()).
		Msg("task finalized")
	return nil
}
