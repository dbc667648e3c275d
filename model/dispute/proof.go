package dispute

import (
	"github.com/ethereum/go-ethereum/common"
)

// ProofKind tags the shape of the Merkle proof carried by a phase.
type ProofKind uint8

const (
	NoProof ProofKind = iota
	SingleList
	DoubleList
)

func (k ProofKind) String() string {
	switch k {
	case NoProof:
		return "none"
	case SingleList:
		return "single"
	case DoubleList:
		return "double"
	default:
		return "unknown"
	}
}

// MerkleProof is the Merkle path material of a phase. Kind determines which lists are set.
type MerkleProof struct {
	Kind     ProofKind
	List     []common.Hash
	List2    []common.Hash
	Location uint64
}

// Path returns the hashes submitted to the judge. Absence of a proof yields an empty,
// non-nil path; a double proof is submitted as the first list followed by the second.
func (p MerkleProof) Path() []common.Hash {
	switch p.Kind {
	case SingleList:
		return append([]common.Hash{}, p.List...)
	case DoubleList:
		path := make([]common.Hash, 0, len(p.List)+len(p.List2))
		path = append(path, p.List...)
		return append(path, p.List2...)
	default:
		return []common.Hash{}
	}
}

// PhaseData is the execution engine's output for one phase of a step.
// Fields holds the phase's own top-level machine fields (zero when absent),
// Machine the nested machine object and VM the VM state object, both optional.
type PhaseData struct {
	Merkle  MerkleProof
	Fields  Machine
	Machine *Machine
	VM      *VMState
}

// StepData is the full per-phase record of a single instruction step.
type StepData struct {
	Step   uint64
	States PhaseStates
	Phases [PhaseCount]PhaseData
}

// PhaseProof is the proof payload assembled for judging a single phase.
type PhaseProof struct {
	Phase   Phase
	Merkle  MerkleProof
	Machine Machine
	VM      VMState
}

// JudgeArgs is the complete argument record of a phase judge call.
type JudgeArgs struct {
	Challenge ChallengeID
	Idx1      uint64
	Phase     Phase
	Proof     []common.Hash
	VM        common.Hash
	Op        common.Hash
	Registers [4]uint64
	Roots     [VMRootCount]common.Hash
	Pointers  [VMPointerCount]uint64
}

// FinalityProof is the execution engine's output for a finality dispute.
type FinalityProof struct {
	Location []common.Hash
	VM       *VMState
}

// FinalityArgs is the argument record of a finality judge call.
type FinalityArgs struct {
	Challenge ChallengeID
	Idx1      uint64
	Location  []common.Hash
	Roots     [VMRootCount]common.Hash
	Pointers  [VMPointerCount]uint64
}

// OutputProof proves the location of the task output inside the final VM state.
type OutputProof struct {
	VM       VMState
	List     []common.Hash
	Location uint64
}
