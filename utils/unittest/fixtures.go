package unittest

import (
	crand "crypto/rand"
	"math/rand"

	"github.com/ethereum/go-ethereum/common"

	"github.com/onflow/dispute-client/model/dispute"
)

func HashFixture() common.Hash {
	var h common.Hash
	_, _ = crand.Read(h[:])
	return h
}

func HashesFixture(n int) []common.Hash {
	hashes := make([]common.Hash, 0, n)
	for i := 0; i < n; i++ {
		hashes = append(hashes, HashFixture())
	}
	return hashes
}

func AddressFixture() common.Address {
	var addr common.Address
	_, _ = crand.Read(addr[:])
	return addr
}

func ChallengeIDFixture() dispute.ChallengeID {
	var id dispute.ChallengeID
	_, _ = crand.Read(id[:])
	return id
}

func TaskIDFixture() dispute.TaskID {
	return dispute.TaskID(rand.Uint32())
}

func FileIDFixture() dispute.FileID {
	return dispute.FileID(HashFixture())
}

func PhaseStatesFixture() dispute.PhaseStates {
	var states dispute.PhaseStates
	for i := range states {
		states[i] = HashFixture()
	}
	return states
}

func MachineFixture() dispute.Machine {
	return dispute.Machine{
		Reg1: rand.Uint64(),
		Reg2: rand.Uint64(),
		Reg3: rand.Uint64(),
		IReg: rand.Uint64(),
		VM:   HashFixture(),
		Op:   HashFixture(),
	}
}

func VMStateFixture() dispute.VMState {
	return dispute.VMState{
		Code:      HashFixture(),
		Stack:     HashFixture(),
		Memory:    HashFixture(),
		CallStack: HashFixture(),
		Globals:   HashFixture(),
		CallTable: HashFixture(),
		CallTypes: HashFixture(),
		InputSize: HashFixture(),
		InputName: HashFixture(),
		InputData: HashFixture(),
		PC:        rand.Uint64(),
		StackPtr:  rand.Uint64(),
		CallPtr:   rand.Uint64(),
		MemSize:   rand.Uint64(),
	}
}

// StepDataFixture returns a step where every phase carries a single-list proof,
// a nested machine and a VM, and the flat phases additionally carry top-level fields.
func StepDataFixture(step uint64, opts ...func(*dispute.StepData)) *dispute.StepData {
	data := &dispute.StepData{
		Step:   step,
		States: PhaseStatesFixture(),
	}
	for i := range data.Phases {
		machine := MachineFixture()
		vm := VMStateFixture()
		data.Phases[i] = dispute.PhaseData{
			Merkle: dispute.MerkleProof{
				Kind: dispute.SingleList,
				List: HashesFixture(3),
			},
			Machine: &machine,
			VM:      &vm,
		}
		if dispute.Phase(i).FlatMachine() {
			data.Phases[i].Fields = MachineFixture()
		}
	}
	for _, apply := range opts {
		apply(data)
	}
	return data
}

func ChallengeFixture(opts ...func(*dispute.Challenge)) *dispute.Challenge {
	c := &dispute.Challenge{
		ID:         ChallengeIDFixture(),
		TaskID:     TaskIDFixture(),
		Kind:       dispute.KindBisection,
		Role:       dispute.RoleProver,
		Prover:     AddressFixture(),
		Challenger: AddressFixture(),
		InitHash:   HashFixture(),
		ResultHash: HashFixture(),
		Size:       16,
		Interval:   dispute.Interval{Idx1: 0, Idx2: 16},
		State:      dispute.StateBisecting,
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

func WithInterval(idx1, idx2 uint64) func(*dispute.Challenge) {
	return func(c *dispute.Challenge) {
		c.Interval = dispute.Interval{Idx1: idx1, Idx2: idx2}
	}
}

func WithChallengeState(state dispute.State) func(*dispute.Challenge) {
	return func(c *dispute.Challenge) {
		c.State = state
	}
}

func WithTask(id dispute.TaskID) func(*dispute.Challenge) {
	return func(c *dispute.Challenge) {
		c.TaskID = id
	}
}

func SessionFixture(opts ...func(*dispute.Session)) *dispute.Session {
	s := &dispute.Session{
		TaskID: TaskIDFixture(),
		Actor:  AddressFixture(),
		Program: dispute.Program{
			Dir:        "/tmp/task",
			CodeFile:   "task.wast",
			CodeType:   dispute.CodeWAST,
			InputFiles: []string{"input.data"},
		},
		Steps:  16,
		Result: HashFixture(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}
