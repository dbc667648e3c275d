package contracts

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/dispatcher"
)

const (
	methodGetName                = "getName"
	methodGetData                = "getData"
	methodGetByteSize            = "getByteSize"
	methodGetRoot                = "getRoot"
	methodCalcID                 = "calcId"
	methodSetSize                = "setSize"
	methodSetLeafs               = "setLeafs"
	methodCreateFileWithContents = "createFileWithContents"
)

// Filesystem is the client of the file storage contract. Files are stored as
// one bytes32 leaf per byte.
type Filesystem struct {
	log        zerolog.Logger
	contract   dispatcher.Contract
	dispatcher *dispatcher.Dispatcher
}

func NewFilesystem(log zerolog.Logger, contract dispatcher.Contract, dispatcher *dispatcher.Dispatcher) *Filesystem {
	return &Filesystem{
		log:        log.With().Str("contract", "filesystem").Logger(),
		contract:   contract,
		dispatcher: dispatcher,
	}
}

func (f *Filesystem) Name(ctx context.Context, id dispute.FileID) (string, error) {
	out, err := f.call(ctx, methodGetName, 1, [32]byte(id))
	if err != nil {
		return "", err
	}
	return asString(methodGetName, out[0])
}

func (f *Filesystem) Data(ctx context.Context, id dispute.FileID) ([]common.Hash, error) {
	out, err := f.call(ctx, methodGetData, 1, [32]byte(id))
	if err != nil {
		return nil, err
	}
	return asHashes(methodGetData, out[0])
}

func (f *Filesystem) ByteSize(ctx context.Context, id dispute.FileID) (uint64, error) {
	out, err := f.call(ctx, methodGetByteSize, 1, [32]byte(id))
	if err != nil {
		return 0, err
	}
	return asUint64(methodGetByteSize, out[0])
}

func (f *Filesystem) Root(ctx context.Context, id dispute.FileID) (common.Hash, error) {
	out, err := f.call(ctx, methodGetRoot, 1, [32]byte(id))
	if err != nil {
		return common.Hash{}, err
	}
	return asHash(methodGetRoot, out[0])
}

// CalcID returns the id a file created by this account with the given nonce gets.
func (f *Filesystem) CalcID(ctx context.Context, nonce uint64) (dispute.FileID, error) {
	out, err := f.call(ctx, methodCalcID, 1, uint256(nonce))
	if err != nil {
		return dispute.FileID{}, err
	}
	id, err := asHash(methodCalcID, out[0])
	if err != nil {
		return dispute.FileID{}, err
	}
	return dispute.FileID(id), nil
}

func (f *Filesystem) SetSize(ctx context.Context, id dispute.FileID, size uint64) error {
	_, err := f.dispatcher.Submit(ctx, f.contract, methodSetSize, [32]byte(id), uint256(size))
	if err != nil {
		return fmt.Errorf("could not set size of file %s: %w", id.Hex(), err)
	}
	return nil
}

// SetLeafs overwrites the leaves [from, to) of a file.
func (f *Filesystem) SetLeafs(ctx context.Context, id dispute.FileID, leaves []common.Hash, from, to uint64) error {
	_, err := f.dispatcher.Submit(ctx, f.contract, methodSetLeafs, [32]byte(id), bytes32s(leaves), uint256(from), uint256(to))
	if err != nil {
		return fmt.Errorf("could not set leaves of file %s: %w", id.Hex(), err)
	}
	return nil
}

// CreateFileWithContents creates a file whose id is derived from nonce, see CalcID.
func (f *Filesystem) CreateFileWithContents(ctx context.Context, name string, nonce uint64, leaves []common.Hash, size uint64) error {
	tx, err := f.dispatcher.Submit(ctx, f.contract, methodCreateFileWithContents, name, uint256(nonce), bytes32s(leaves), uint256(size))
	if err != nil {
		return fmt.Errorf("could not create file %s: %w", name, err)
	}
	f.log.Debug().
		Str("name", name).
		Uint64("nonce", nonce).
		Uint64("size", size).
		Str("tx", tx.Hash().Hex()).
		Msg("file created")
	return nil
}

func (f *Filesystem) call(ctx context.Context, method string, n int, params ...interface{}) ([]interface{}, error) {
	out, err := f.dispatcher.Call(ctx, f.contract, method, params...)
	if err != nil {
		return nil, err
	}
	if err := outputs(method, out, n); err != nil {
		return nil, err
	}
	return out, nil
}
