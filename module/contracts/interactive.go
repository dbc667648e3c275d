package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/dispatcher"
)

const (
	MethodReport            = "report"
	MethodPostPhases        = "postPhases"
	MethodSelectErrorPhase  = "selectErrorPhase"
	MethodCallJudge         = "callJudge"
	MethodCallFinalityJudge = "callFinalityJudge"
)

// Interactive is the client of the interactive verification game contract.
type Interactive struct {
	log        zerolog.Logger
	contract   dispatcher.Contract
	dispatcher *dispatcher.Dispatcher
}

var _ module.DisputeClient = (*Interactive)(nil)

func NewInteractive(log zerolog.Logger, contract dispatcher.Contract, dispatcher *dispatcher.Dispatcher) *Interactive {
	return &Interactive{
		log:        log.With().Str("contract", "interactive").Logger(),
		contract:   contract,
		dispatcher: dispatcher,
	}
}

func (c *Interactive) Report(ctx context.Context, id dispute.ChallengeID, idx1, idx2 uint64, mid common.Hash) error {
	return c.submit(ctx, id, MethodReport,
		[32]byte(id), uint256(idx1), uint256(idx2), bytes32s([]common.Hash{mid}))
}

func (c *Interactive) PostPhases(ctx context.Context, id dispute.ChallengeID, idx1 uint64, states dispute.PhaseStates) error {
	var arr [dispute.PhaseCount][32]byte
	for i, s := range states {
		arr[i] = s
	}
	return c.submit(ctx, id, MethodPostPhases, [32]byte(id), uint256(idx1), arr)
}

func (c *Interactive) SelectErrorPhase(ctx context.Context, id dispute.ChallengeID, idx1 uint64, prior common.Hash, phase dispute.Phase) error {
	return c.submit(ctx, id, MethodSelectErrorPhase,
		[32]byte(id), uint256(idx1), [32]byte(prior), big.NewInt(int64(phase)))
}

func (c *Interactive) CallJudge(ctx context.Context, args dispute.JudgeArgs) error {
	return c.submit(ctx, args.Challenge, MethodCallJudge,
		[32]byte(args.Challenge),
		uint256(args.Idx1),
		big.NewInt(int64(args.Phase)),
		bytes32s(args.Proof),
		[32]byte(args.VM),
		[32]byte(args.Op),
		uint256Array(args.Registers),
		rootArray(args.Roots),
		uint256Array(args.Pointers),
	)
}

func (c *Interactive) CallFinalityJudge(ctx context.Context, args dispute.FinalityArgs) error {
	return c.submit(ctx, args.Challenge, MethodCallFinalityJudge,
		[32]byte(args.Challenge),
		uint256(args.Idx1),
		bytes32s(args.Location),
		rootArray(args.Roots),
		uint256Array(args.Pointers),
	)
}

func (c *Interactive) submit(ctx context.Context, id dispute.ChallengeID, method string, params ...interface{}) error {
	tx, err := c.dispatcher.Submit(ctx, c.contract, method, params...)
	if err != nil {
		return fmt.Errorf("could not send %s for challenge %x: %w", method, id, err)
	}
	c.log.Info().
		Hex("challenge_id", id[:]).
		Str("method", method).
		Str("tx", tx.Hash().Hex()).
		Msg("response sent")
	return nil
}
