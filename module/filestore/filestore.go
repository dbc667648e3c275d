package filestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
)

// ErrSizeMismatch is returned when a file's byte size exceeds its stored leaves.
var ErrSizeMismatch = errors.New("file size exceeds stored data")

// Filesystem is the file storage contract, see contracts.Filesystem.
type Filesystem interface {
	Name(ctx context.Context, id dispute.FileID) (string, error)
	Data(ctx context.Context, id dispute.FileID) ([]common.Hash, error)
	ByteSize(ctx context.Context, id dispute.FileID) (uint64, error)
	Root(ctx context.Context, id dispute.FileID) (common.Hash, error)
	CalcID(ctx context.Context, nonce uint64) (dispute.FileID, error)
	SetSize(ctx context.Context, id dispute.FileID, size uint64) error
	SetLeafs(ctx context.Context, id dispute.FileID, leaves []common.Hash, from, to uint64) error
	CreateFileWithContents(ctx context.Context, name string, nonce uint64, leaves []common.Hash, size uint64) error
}

// NonceSource provides the transaction count of the account creating files.
// It is satisfied by *ethclient.Client.
type NonceSource interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// Store reads and writes whole files through the file storage contract. A
// file is stored as one leaf per byte, holding the byte value.
type Store struct {
	log     zerolog.Logger
	fs      Filesystem
	nonces  NonceSource
	account common.Address
}

var _ module.FileStore = (*Store)(nil)

func New(log zerolog.Logger, fs Filesystem, nonces NonceSource, account common.Address) *Store {
	return &Store{
		log:     log.With().Str("module", "filestore").Logger(),
		fs:      fs,
		nonces:  nonces,
		account: account,
	}
}

func (s *Store) GetFile(ctx context.Context, id dispute.FileID) (*dispute.File, error) {
	name, err := s.fs.Name(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get name of file %s: %w", id.Hex(), err)
	}
	leaves, err := s.fs.Data(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get data of file %s: %w", id.Hex(), err)
	}
	size, err := s.fs.ByteSize(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get size of file %s: %w", id.Hex(), err)
	}

	data, err := LeavesToBytes(leaves)
	if err != nil {
		return nil, fmt.Errorf("could not decode file %s: %w", id.Hex(), err)
	}
	if size > uint64(len(data)) {
		return nil, fmt.Errorf("file %s has size %d but %d leaves: %w", id.Hex(), size, len(data), ErrSizeMismatch)
	}
	return &dispute.File{Name: name, Data: data[:size]}, nil
}

func (s *Store) SetFile(ctx context.Context, id dispute.FileID, data []byte) error {
	leaves := BytesToLeaves(data)
	size := uint64(len(leaves))
	if err := s.fs.SetSize(ctx, id, size); err != nil {
		return err
	}
	return s.fs.SetLeafs(ctx, id, leaves, 0, size)
}

func (s *Store) CreateFile(ctx context.Context, name string, data []byte) (dispute.FileID, error) {
	nonce, err := s.nonces.PendingNonceAt(ctx, s.account)
	if err != nil {
		return dispute.FileID{}, fmt.Errorf("could not get nonce: %w", err)
	}

	err = s.fs.CreateFileWithContents(ctx, name, nonce, BytesToLeaves(data), uint64(len(data)))
	if err != nil {
		return dispute.FileID{}, err
	}
	id, err := s.fs.CalcID(ctx, nonce)
	if err != nil {
		return dispute.FileID{}, fmt.Errorf("could not calculate id of file %s: %w", name, err)
	}

	s.log.Info().
		Str("name", name).
		Str("file_id", id.Hex()).
		Int("size", len(data)).
		Msg("uploaded file")
	return id, nil
}

func (s *Store) Root(ctx context.Context, id dispute.FileID) (common.Hash, error) {
	root, err := s.fs.Root(ctx, id)
	if err != nil {
		return common.Hash{}, fmt.Errorf("could not get root of file %s: %w", id.Hex(), err)
	}
	return root, nil
}

// BytesToLeaves encodes every byte as a leaf holding its value.
func BytesToLeaves(data []byte) []common.Hash {
	tokens := dispute.BufferToInput(data)
	leaves := make([]common.Hash, len(tokens))
	for i, token := range tokens {
		leaves[i] = common.HexToHash(token)
	}
	return leaves
}

// LeavesToBytes is the inverse of BytesToLeaves. A leaf holding a value
// above 0xff is an error.
func LeavesToBytes(leaves []common.Hash) ([]byte, error) {
	tokens := make([]string, len(leaves))
	for i, leaf := range leaves {
		tokens[i] = hexutil.EncodeBig(leaf.Big())
	}
	return dispute.InputToBuffer(tokens)
}
