package contracts

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/onflow/dispute-client/model/dispute"
)

// ErrUnexpectedOutput is returned when a contract call returns values of
// unexpected number or type.
var ErrUnexpectedOutput = errors.New("unexpected contract output")

// BindTasks binds the task registry contract deployed at address.
func BindTasks(address common.Address, backend bind.ContractBackend) *bind.BoundContract {
	return bind.NewBoundContract(address, tasksABI, backend, backend, backend)
}

// BindInteractive binds the interactive verification game contract deployed at address.
func BindInteractive(address common.Address, backend bind.ContractBackend) *bind.BoundContract {
	return bind.NewBoundContract(address, interactiveABI, backend, backend, backend)
}

// BindFilesystem binds the file storage contract deployed at address.
func BindFilesystem(address common.Address, backend bind.ContractBackend) *bind.BoundContract {
	return bind.NewBoundContract(address, filesystemABI, backend, backend, backend)
}

func uint256(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func bytes32s(hashes []common.Hash) [][32]byte {
	out := make([][32]byte, len(hashes))
	for i, h := range hashes {
		out[i] = h
	}
	return out
}

func rootArray(vm [dispute.VMRootCount]common.Hash) [dispute.VMRootCount][32]byte {
	var out [dispute.VMRootCount][32]byte
	for i, h := range vm {
		out[i] = h
	}
	return out
}

func uint256Array(values [4]uint64) [4]*big.Int {
	var out [4]*big.Int
	for i, v := range values {
		out[i] = uint256(v)
	}
	return out
}

// outputs checks the number of values returned by method.
func outputs(method string, out []interface{}, n int) error {
	if len(out) != n {
		return fmt.Errorf("%s returned %d values, expected %d: %w", method, len(out), n, ErrUnexpectedOutput)
	}
	return nil
}

func asUint64(method string, v interface{}) (uint64, error) {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return 0, fmt.Errorf("%s returned %T, expected integer: %w", method, v, ErrUnexpectedOutput)
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%s returned %s, out of range: %w", method, n, ErrUnexpectedOutput)
	}
	return n.Uint64(), nil
}

func asUint8(method string, v interface{}) (uint8, error) {
	n, ok := v.(uint8)
	if !ok {
		return 0, fmt.Errorf("%s returned %T, expected uint8: %w", method, v, ErrUnexpectedOutput)
	}
	return n, nil
}

func asHash(method string, v interface{}) (common.Hash, error) {
	b, ok := v.([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("%s returned %T, expected bytes32: %w", method, v, ErrUnexpectedOutput)
	}
	return b, nil
}

func asHashes(method string, v interface{}) ([]common.Hash, error) {
	list, ok := v.([][32]byte)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, expected bytes32[]: %w", method, v, ErrUnexpectedOutput)
	}
	hashes := make([]common.Hash, len(list))
	for i, b := range list {
		hashes[i] = b
	}
	return hashes, nil
}

func asAddress(method string, v interface{}) (common.Address, error) {
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s returned %T, expected address: %w", method, v, ErrUnexpectedOutput)
	}
	return addr, nil
}

func asString(method string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, expected string: %w", method, v, ErrUnexpectedOutput)
	}
	return s, nil
}
