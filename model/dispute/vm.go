package dispute

import (
	"github.com/ethereum/go-ethereum/common"
)

// VMRootCount and VMPointerCount are the arities of the VM state vectors passed to the judge.
const (
	VMRootCount    = 10
	VMPointerCount = 4
)

// VMState summarizes the machine state at a step boundary with hash commitments and cursors.
type VMState struct {
	Code      common.Hash
	Stack     common.Hash
	Memory    common.Hash
	CallStack common.Hash
	Globals   common.Hash
	CallTable common.Hash
	CallTypes common.Hash
	InputSize common.Hash
	InputName common.Hash
	InputData common.Hash

	PC       uint64
	StackPtr uint64
	CallPtr  uint64
	MemSize  uint64
}

// ZeroVMState returns the canonical all-zero VM state used when a phase carries no VM object.
func ZeroVMState() VMState {
	return VMState{}
}

// Roots returns the VM root hashes in the order expected by the judge.
// The order is part of the wire contract and must not change.
func (vm VMState) Roots() [VMRootCount]common.Hash {
	return [VMRootCount]common.Hash{
		vm.Code,
		vm.Stack,
		vm.Memory,
		vm.CallStack,
		vm.Globals,
		vm.CallTable,
		vm.CallTypes,
		vm.InputSize,
		vm.InputName,
		vm.InputData,
	}
}

// Pointers returns the VM cursors in the order expected by the judge.
func (vm VMState) Pointers() [VMPointerCount]uint64 {
	return [VMPointerCount]uint64{vm.PC, vm.StackPtr, vm.CallPtr, vm.MemSize}
}

// Machine is the register snapshot of a single phase.
type Machine struct {
	Reg1 uint64
	Reg2 uint64
	Reg3 uint64
	IReg uint64
	VM   common.Hash
	Op   common.Hash
}

// ZeroMachine returns the canonical placeholder snapshot: all registers zero,
// VM reference and opcode zero.
func ZeroMachine() Machine {
	return Machine{}
}

// Registers returns the registers in judge argument order.
func (m Machine) Registers() [4]uint64 {
	return [4]uint64{m.Reg1, m.Reg2, m.Reg3, m.IReg}
}
