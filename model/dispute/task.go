package dispute

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// TaskID identifies a task in the task registry contract.
type TaskID uint64

func (id TaskID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// FileID identifies a file in the file-storage contract.
type FileID common.Hash

func (id FileID) Hex() string {
	return common.Hash(id).Hex()
}

// Task is a unit of computation submitted for verification.
type Task struct {
	ID         TaskID
	Giver      common.Address
	CodeRef    FileID
	InputRef   FileID
	InitHash   common.Hash
	ResultHash common.Hash
	Steps      uint64
}

// VMParameters are the memory and stack sizing parameters the task giver fixed for a task.
type VMParameters struct {
	StackSize   uint8
	MemorySize  uint8
	CallSize    uint8
	GlobalsSize uint8
	TableSize   uint8
}

// File is the content and name of a file held by the file-storage contract.
type File struct {
	Name string
	Data []byte
}
