package dispute

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Phase identifies one of the fine-grained sub-checks of a single instruction step.
type Phase uint8

const (
	PhaseFetch Phase = iota
	PhaseInit
	PhaseReg1
	PhaseReg2
	PhaseReg3
	PhaseALU
	PhaseWrite1
	PhaseWrite2
	PhasePC
	PhaseStackPtr
	PhaseCallPtr
	PhaseMemsize
)

// PhaseCount is the number of phases of a single step.
const PhaseCount = 12

// phaseNames is part of the wire contract with the judge and the execution engine,
// the index of each name is the phase number.
var phaseNames = [PhaseCount]string{
	"fetch",
	"init",
	"reg1",
	"reg2",
	"reg3",
	"alu",
	"write1",
	"write2",
	"pc",
	"stack_ptr",
	"call_ptr",
	"memsize",
}

// String returns the semantic name of the phase as used by the execution engine.
func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
	return phaseNames[p]
}

// Valid returns true if the phase is within [0, PhaseCount).
func (p Phase) Valid() bool {
	return p < PhaseCount
}

// FlatMachine returns true for the phases whose machine snapshot is carried by the
// phase's own top-level fields instead of a nested machine object.
func (p Phase) FlatMachine() bool {
	return p == PhaseInit || p == PhaseALU
}

// AllPhases returns the phases in table order.
func AllPhases() []Phase {
	phases := make([]Phase, PhaseCount)
	for i := range phases {
		phases[i] = Phase(i)
	}
	return phases
}

// PhaseStates is the tuple of intermediate state hashes of a single step, one per phase.
type PhaseStates [PhaseCount]common.Hash

// FirstDisagreement scans the claimed tuple against the locally computed one from index 1
// upward and returns the phase preceding the first differing entry together with the
// claimed hash at that phase. If no entry differs the last phase is returned.
func (local PhaseStates) FirstDisagreement(claimed PhaseStates) (Phase, common.Hash) {
	i := 1
	for ; i < PhaseCount; i++ {
		if local[i] != claimed[i] {
			break
		}
	}
	return Phase(i - 1), claimed[i-1]
}
