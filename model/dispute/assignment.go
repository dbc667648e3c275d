package dispute

import (
	"github.com/ethereum/go-ethereum/common"
)

// Assignment describes a task this process was asked to solve.
type Assignment struct {
	TaskID TaskID
	// Actor is the account solving the task and answering its challenges.
	Actor common.Address
	Giver common.Address
	// InitHash is the initial state hash claimed by the task giver.
	InitHash common.Hash
	Code     FileID
	CodeType CodeType
	Input    FileID
	// Fault is set to solve the task incorrectly on purpose.
	Fault *Fault
}
