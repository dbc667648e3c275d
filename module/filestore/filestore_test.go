package filestore

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/utils/unittest"
)

// memoryFilesystem keeps files in memory the way the contract stores them.
type memoryFilesystem struct {
	names  map[dispute.FileID]string
	leaves map[dispute.FileID][]common.Hash
	sizes  map[dispute.FileID]uint64
	ids    map[uint64]dispute.FileID
}

func newMemoryFilesystem() *memoryFilesystem {
	return &memoryFilesystem{
		names:  make(map[dispute.FileID]string),
		leaves: make(map[dispute.FileID][]common.Hash),
		sizes:  make(map[dispute.FileID]uint64),
		ids:    make(map[uint64]dispute.FileID),
	}
}

func (m *memoryFilesystem) Name(_ context.Context, id dispute.FileID) (string, error) {
	return m.names[id], nil
}

func (m *memoryFilesystem) Data(_ context.Context, id dispute.FileID) ([]common.Hash, error) {
	return m.leaves[id], nil
}

func (m *memoryFilesystem) ByteSize(_ context.Context, id dispute.FileID) (uint64, error) {
	return m.sizes[id], nil
}

func (m *memoryFilesystem) Root(_ context.Context, id dispute.FileID) (common.Hash, error) {
	return common.Hash(id), nil
}

func (m *memoryFilesystem) CalcID(_ context.Context, nonce uint64) (dispute.FileID, error) {
	id, ok := m.ids[nonce]
	if !ok {
		return dispute.FileID{}, errors.New("no file for nonce")
	}
	return id, nil
}

func (m *memoryFilesystem) SetSize(_ context.Context, id dispute.FileID, size uint64) error {
	m.sizes[id] = size
	m.leaves[id] = make([]common.Hash, size)
	return nil
}

func (m *memoryFilesystem) SetLeafs(_ context.Context, id dispute.FileID, leaves []common.Hash, from, to uint64) error {
	copy(m.leaves[id][from:to], leaves)
	return nil
}

func (m *memoryFilesystem) CreateFileWithContents(_ context.Context, name string, nonce uint64, leaves []common.Hash, size uint64) error {
	id := unittest.FileIDFixture()
	m.ids[nonce] = id
	m.names[id] = name
	m.leaves[id] = leaves
	m.sizes[id] = size
	return nil
}

type fixedNonce uint64

func (n fixedNonce) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return uint64(n), nil
}

func TestLeaves(t *testing.T) {
	leaves := BytesToLeaves([]byte{0x00, 0x0a, 0xff})
	assert.Equal(t, []common.Hash{
		common.BigToHash(common.Big0),
		common.HexToHash("0x0a"),
		common.HexToHash("0xff"),
	}, leaves)

	_, err := LeavesToBytes([]common.Hash{common.HexToHash("0x0100")})
	require.ErrorIs(t, err, dispute.ErrMalformedToken)
}

func TestLeaves_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		decoded, err := LeavesToBytes(BytesToLeaves(data))
		require.NoError(t, err)
		assert.Equal(t, len(data), len(decoded))
		if len(data) > 0 {
			assert.Equal(t, data, decoded)
		}
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	fs := newMemoryFilesystem()
	store := New(unittest.Logger(), fs, fixedNonce(7), unittest.AddressFixture())
	ctx := context.Background()

	id, err := store.CreateFile(ctx, "task.out", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, fs.ids[7], id)

	file, err := store.GetFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &dispute.File{Name: "task.out", Data: []byte("hello")}, file)

	require.NoError(t, store.SetFile(ctx, id, []byte("bye")))
	file, err = store.GetFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("bye"), file.Data)

	root, err := store.Root(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, common.Hash(id), root)
}

func TestStore_GetFileTruncatesToSize(t *testing.T) {
	fs := newMemoryFilesystem()
	id := unittest.FileIDFixture()
	fs.names[id] = "input.bin"
	fs.leaves[id] = BytesToLeaves([]byte{1, 2, 3, 0, 0})
	fs.sizes[id] = 3

	store := New(unittest.Logger(), fs, fixedNonce(0), unittest.AddressFixture())
	file, err := store.GetFile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, file.Data)

	fs.sizes[id] = 6
	_, err = store.GetFile(context.Background(), id)
	require.ErrorIs(t, err, ErrSizeMismatch)
}
