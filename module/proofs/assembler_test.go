package proofs

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onflow/dispute-client/model/dispute"
	mockmodule "github.com/onflow/dispute-client/module/mock"
	"github.com/onflow/dispute-client/utils/unittest"
)

// A phase without a nested machine gets the zero snapshot.
func TestBuildPhaseProof_MissingMachine(t *testing.T) {
	step := unittest.StepDataFixture(7)
	step.Phases[dispute.PhaseReg1].Machine = nil

	proof, err := BuildPhaseProof(step, dispute.PhaseReg1)
	require.NoError(t, err)
	assert.Equal(t, dispute.ZeroMachine(), proof.Machine)
	assert.Equal(t, [4]uint64{0, 0, 0, 0}, proof.Machine.Registers())
	assert.Equal(t, common.Hash{}, proof.Machine.VM)
	assert.Equal(t, common.Hash{}, proof.Machine.Op)
}

// init and alu always take the top-level fields, even when a nested machine is present.
func TestBuildPhaseProof_FlatPhases(t *testing.T) {
	step := unittest.StepDataFixture(3)

	for _, phase := range []dispute.Phase{dispute.PhaseInit, dispute.PhaseALU} {
		t.Run(phase.String(), func(t *testing.T) {
			data := step.Phases[phase]
			require.NotNil(t, data.Machine)
			require.NotEqual(t, *data.Machine, data.Fields)

			proof, err := BuildPhaseProof(step, phase)
			require.NoError(t, err)
			assert.Equal(t, data.Fields, proof.Machine)
		})
	}

	// all other phases use the nested machine
	for _, phase := range dispute.AllPhases() {
		if phase.FlatMachine() {
			continue
		}
		proof, err := BuildPhaseProof(step, phase)
		require.NoError(t, err)
		assert.Equal(t, *step.Phases[phase].Machine, proof.Machine, phase.String())
	}
}

func TestBuildPhaseProof_MissingVM(t *testing.T) {
	step := unittest.StepDataFixture(1)
	step.Phases[dispute.PhaseWrite1].VM = nil

	proof, err := BuildPhaseProof(step, dispute.PhaseWrite1)
	require.NoError(t, err)
	assert.Equal(t, [dispute.VMRootCount]common.Hash{}, proof.VM.Roots())
	assert.Equal(t, [dispute.VMPointerCount]uint64{}, proof.VM.Pointers())
}

func TestBuildPhaseProof_InvalidPhase(t *testing.T) {
	step := unittest.StepDataFixture(1)
	_, err := BuildPhaseProof(step, dispute.Phase(dispute.PhaseCount))
	require.ErrorIs(t, err, ErrInvalidPhase)
}

func TestJudgeArgs(t *testing.T) {
	id := unittest.ChallengeIDFixture()

	t.Run("missing merkle list submits an empty proof", func(t *testing.T) {
		step := unittest.StepDataFixture(5)
		step.Phases[dispute.PhaseFetch].Merkle = dispute.MerkleProof{}

		args, err := JudgeArgs(id, step, dispute.PhaseFetch)
		require.NoError(t, err)
		require.NotNil(t, args.Proof)
		assert.Empty(t, args.Proof)
	})

	t.Run("double list is submitted as first list then second", func(t *testing.T) {
		step := unittest.StepDataFixture(5)
		first, second := unittest.HashesFixture(2), unittest.HashesFixture(3)
		step.Phases[dispute.PhaseWrite2].Merkle = dispute.MerkleProof{
			Kind:  dispute.DoubleList,
			List:  first,
			List2: second,
		}

		args, err := JudgeArgs(id, step, dispute.PhaseWrite2)
		require.NoError(t, err)
		assert.Equal(t, append(append([]common.Hash{}, first...), second...), args.Proof)
	})

	t.Run("arguments follow the judge order", func(t *testing.T) {
		step := unittest.StepDataFixture(9)
		data := step.Phases[dispute.PhasePC]

		args, err := JudgeArgs(id, step, dispute.PhasePC)
		require.NoError(t, err)
		assert.Equal(t, id, args.Challenge)
		assert.Equal(t, uint64(9), args.Idx1)
		assert.Equal(t, dispute.PhasePC, args.Phase)
		assert.Equal(t, data.Merkle.List, args.Proof)
		assert.Equal(t, data.Machine.VM, args.VM)
		assert.Equal(t, data.Machine.Op, args.Op)
		assert.Equal(t, [4]uint64{data.Machine.Reg1, data.Machine.Reg2, data.Machine.Reg3, data.Machine.IReg}, args.Registers)
		assert.Equal(t, data.VM.Code, args.Roots[0])
		assert.Equal(t, data.VM.InputData, args.Roots[9])
		assert.Equal(t, data.VM.PC, args.Pointers[0])
		assert.Equal(t, data.VM.MemSize, args.Pointers[3])
	})
}

func TestFinalityArgs(t *testing.T) {
	id := unittest.ChallengeIDFixture()

	args := FinalityArgs(id, 42, nil)
	assert.Equal(t, uint64(42), args.Idx1)
	assert.NotNil(t, args.Location)
	assert.Empty(t, args.Location)
	assert.Equal(t, [dispute.VMRootCount]common.Hash{}, args.Roots)

	vm := unittest.VMStateFixture()
	location := unittest.HashesFixture(4)
	args = FinalityArgs(id, 42, &dispute.FinalityProof{Location: location, VM: &vm})
	assert.Equal(t, location, args.Location)
	assert.Equal(t, vm.Roots(), args.Roots)
	assert.Equal(t, vm.Pointers(), args.Pointers)
}

func TestAssembler(t *testing.T) {
	session := unittest.SessionFixture()
	id := unittest.ChallengeIDFixture()

	t.Run("judge", func(t *testing.T) {
		engine := mockmodule.NewExecutionEngine(t)
		step := unittest.StepDataFixture(0)
		engine.On("Step", mock.Anything, session.Program, uint64(4)).Return(step, nil).Once()

		a := NewAssembler(unittest.Logger(), engine)
		args, err := a.Judge(context.Background(), session, id, 4, dispute.PhaseStackPtr)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), args.Idx1)
		assert.Equal(t, step.Phases[dispute.PhaseStackPtr].VM.Roots(), args.Roots)
	})

	t.Run("engine failure", func(t *testing.T) {
		engine := mockmodule.NewExecutionEngine(t)
		failure := errors.New("interpreter crashed")
		engine.On("Step", mock.Anything, session.Program, uint64(4)).Return(nil, failure).Once()

		a := NewAssembler(unittest.Logger(), engine)
		_, err := a.Judge(context.Background(), session, id, 4, dispute.PhaseFetch)
		require.ErrorIs(t, err, failure)
	})

	t.Run("finality uses the step count", func(t *testing.T) {
		engine := mockmodule.NewExecutionEngine(t)
		engine.On("Finality", mock.Anything, session.Program, session.Steps).Return(&dispute.FinalityProof{}, nil).Once()

		a := NewAssembler(unittest.Logger(), engine)
		args, err := a.Finality(context.Background(), session, id)
		require.NoError(t, err)
		assert.Equal(t, session.Steps, args.Idx1)
		assert.Equal(t, id, args.Challenge)
	})
}
