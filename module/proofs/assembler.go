package proofs

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
)

// ErrInvalidPhase is returned when a phase index outside the phase table is requested.
var ErrInvalidPhase = errors.New("invalid phase")

// Assembler fetches per-step data from the execution engine and shapes it into
// the fixed-arity argument records expected by the judge contracts.
type Assembler struct {
	log    zerolog.Logger
	engine module.ExecutionEngine
}

// NewAssembler creates a proof assembler on top of the given execution engine.
func NewAssembler(log zerolog.Logger, engine module.ExecutionEngine) *Assembler {
	return &Assembler{
		log:    log.With().Str("module", "proof_assembler").Logger(),
		engine: engine,
	}
}

// StepProof returns the phase states and per-phase proofs of the given step.
func (a *Assembler) StepProof(ctx context.Context, session *dispute.Session, step uint64) (*dispute.StepData, error) {
	data, err := a.engine.Step(ctx, session.Program, step)
	if err != nil {
		return nil, fmt.Errorf("could not get step %d of task %d: %w", step, session.TaskID, err)
	}
	if data.Step != step {
		cp := *data
		cp.Step = step
		data = &cp
	}
	return data, nil
}

// Judge fetches the step proof and assembles the judge arguments of the given phase.
func (a *Assembler) Judge(ctx context.Context, session *dispute.Session, id dispute.ChallengeID, idx1 uint64, phase dispute.Phase) (dispute.JudgeArgs, error) {
	step, err := a.StepProof(ctx, session, idx1)
	if err != nil {
		return dispute.JudgeArgs{}, err
	}
	args, err := JudgeArgs(id, step, phase)
	if err != nil {
		return dispute.JudgeArgs{}, err
	}
	a.log.Debug().
		Str("challenge", id.Short()).
		Uint64("step", idx1).
		Str("phase", phase.String()).
		Int("proof_len", len(args.Proof)).
		Msg("assembled phase proof")
	return args, nil
}

// Finality fetches the finality proof and assembles the finality judge arguments.
// The step count of the session is used as the first index.
func (a *Assembler) Finality(ctx context.Context, session *dispute.Session, id dispute.ChallengeID) (dispute.FinalityArgs, error) {
	proof, err := a.engine.Finality(ctx, session.Program, session.Steps)
	if err != nil {
		return dispute.FinalityArgs{}, fmt.Errorf("could not get finality proof of task %d: %w", session.TaskID, err)
	}
	return FinalityArgs(id, session.Steps, proof), nil
}

// BuildPhaseProof selects the proof material of one phase and fills every absent
// field with its canonical placeholder. The phases init and alu carry their machine
// fields at the top level; for them a nested machine object is never used.
func BuildPhaseProof(step *dispute.StepData, phase dispute.Phase) (dispute.PhaseProof, error) {
	if !phase.Valid() {
		return dispute.PhaseProof{}, fmt.Errorf("phase %d: %w", phase, ErrInvalidPhase)
	}
	data := step.Phases[phase]

	machine := dispute.ZeroMachine()
	switch {
	case phase.FlatMachine():
		machine = data.Fields
	case data.Machine != nil:
		machine = *data.Machine
	}

	vm := dispute.ZeroVMState()
	if data.VM != nil {
		vm = *data.VM
	}

	merkle := data.Merkle
	if merkle.Kind == dispute.SingleList && merkle.List == nil {
		merkle.List = []common.Hash{}
	}

	return dispute.PhaseProof{
		Phase:   phase,
		Merkle:  merkle,
		Machine: machine,
		VM:      vm,
	}, nil
}

// JudgeArgs shapes the phase proof of a step into the judge call arguments.
func JudgeArgs(id dispute.ChallengeID, step *dispute.StepData, phase dispute.Phase) (dispute.JudgeArgs, error) {
	proof, err := BuildPhaseProof(step, phase)
	if err != nil {
		return dispute.JudgeArgs{}, err
	}
	return dispute.JudgeArgs{
		Challenge: id,
		Idx1:      step.Step,
		Phase:     phase,
		Proof:     proof.Merkle.Path(),
		VM:        proof.Machine.VM,
		Op:        proof.Machine.Op,
		Registers: proof.Machine.Registers(),
		Roots:     proof.VM.Roots(),
		Pointers:  proof.VM.Pointers(),
	}, nil
}

// FinalityArgs shapes a finality proof into the finality judge call arguments.
// A nil proof or missing fields are replaced by an empty location and the zero VM.
func FinalityArgs(id dispute.ChallengeID, idx1 uint64, proof *dispute.FinalityProof) dispute.FinalityArgs {
	location := []common.Hash{}
	vm := dispute.ZeroVMState()
	if proof != nil {
		if proof.Location != nil {
			location = proof.Location
		}
		if proof.VM != nil {
			vm = *proof.VM
		}
	}
	return dispute.FinalityArgs{
		Challenge: id,
		Idx1:      idx1,
		Location:  location,
		Roots:     vm.Roots(),
		Pointers:  vm.Pointers(),
	}
}
