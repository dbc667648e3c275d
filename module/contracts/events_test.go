package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/utils/unittest"
)

// eventLog packs the event arguments the way the contract emits them.
func eventLog(t *testing.T, name string, block uint64, index uint, args ...interface{}) types.Log {
	ev, ok := interactiveABI.Events[name]
	require.True(t, ok)
	data, err := ev.Inputs.Pack(args...)
	require.NoError(t, err)
	return types.Log{
		Topics:      []common.Hash{ev.ID},
		Data:        data,
		BlockNumber: block,
		Index:       index,
	}
}

func TestDecodeEvent(t *testing.T) {
	id := unittest.ChallengeIDFixture()
	prover, challenger := unittest.AddressFixture(), unittest.AddressFixture()
	initial, result := unittest.HashFixture(), unittest.HashFixture()

	t.Run("start challenge", func(t *testing.T) {
		l := eventLog(t, EventStartChallenge, 10, 2,
			prover, challenger, [32]byte(initial), [32]byte(result),
			big.NewInt(0), big.NewInt(16), big.NewInt(16), big.NewInt(100), [32]byte(id))

		ev, err := DecodeEvent(l)
		require.NoError(t, err)
		assert.Equal(t, &dispute.ChallengeStarted{
			Pos:        dispute.Position{Block: 10, Index: 2},
			ID:         id,
			Prover:     prover,
			Challenger: challenger,
			InitHash:   initial,
			ResultHash: result,
			Idx1:       0,
			Idx2:       16,
			Size:       16,
			Timeout:    100,
		}, ev)
	})

	t.Run("start finality challenge", func(t *testing.T) {
		l := eventLog(t, EventStartFinalityChallenge, 11, 0,
			prover, challenger, [32]byte(initial), [32]byte(result), big.NewInt(42), [32]byte(id))

		ev, err := DecodeEvent(l)
		require.NoError(t, err)
		assert.Equal(t, &dispute.FinalityChallengeStarted{
			Pos:        dispute.Position{Block: 11},
			ID:         id,
			Prover:     prover,
			Challenger: challenger,
			InitHash:   initial,
			ResultHash: result,
			Step:       42,
		}, ev)
	})

	t.Run("queried", func(t *testing.T) {
		l := eventLog(t, EventQueried, 12, 1, [32]byte(id), big.NewInt(8), big.NewInt(16))

		ev, err := DecodeEvent(l)
		require.NoError(t, err)
		assert.Equal(t, &dispute.Queried{
			Pos:  dispute.Position{Block: 12, Index: 1},
			ID:   id,
			Idx1: 8,
			Idx2: 16,
		}, ev)
	})

	t.Run("posted error phases", func(t *testing.T) {
		states := unittest.PhaseStatesFixture()
		var arr [dispute.PhaseCount][32]byte
		for i, s := range states {
			arr[i] = s
		}
		l := eventLog(t, EventPostedErrorPhases, 13, 0, [32]byte(id), big.NewInt(7), arr)

		ev, err := DecodeEvent(l)
		require.NoError(t, err)
		assert.Equal(t, &dispute.ErrorPhasesPosted{
			Pos:    dispute.Position{Block: 13},
			ID:     id,
			Idx1:   7,
			Phases: states,
		}, ev)
	})

	t.Run("selected phase", func(t *testing.T) {
		l := eventLog(t, EventSelectedPhase, 14, 0, [32]byte(id), big.NewInt(7), big.NewInt(5))

		ev, err := DecodeEvent(l)
		require.NoError(t, err)
		assert.Equal(t, &dispute.PhaseSelected{
			Pos:   dispute.Position{Block: 14},
			ID:    id,
			Idx1:  7,
			Phase: dispute.PhaseALU,
		}, ev)
	})

	t.Run("invalid phase", func(t *testing.T) {
		l := eventLog(t, EventSelectedPhase, 14, 0, [32]byte(id), big.NewInt(7), big.NewInt(12))
		_, err := DecodeEvent(l)
		require.Error(t, err)
	})

	t.Run("index out of range", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 70)
		l := eventLog(t, EventQueried, 12, 1, [32]byte(id), big.NewInt(8), huge)
		_, err := DecodeEvent(l)
		require.Error(t, err)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := DecodeEvent(types.Log{Topics: []common.Hash{unittest.HashFixture()}})
		require.ErrorIs(t, err, ErrUnknownEvent)

		_, err = DecodeEvent(types.Log{})
		require.ErrorIs(t, err, ErrUnknownEvent)
	})
}
