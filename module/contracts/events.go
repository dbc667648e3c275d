package contracts

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/onflow/dispute-client/model/dispute"
)

const (
	EventStartChallenge         = "StartChallenge"
	EventStartFinalityChallenge = "StartFinalityChallenge"
	EventQueried                = "Queried"
	EventPostedErrorPhases      = "PostedErrorPhases"
	EventSelectedPhase          = "SelectedPhase"
)

// Events lists the events of the interactive contract the client reacts to.
var Events = []string{
	EventStartChallenge,
	EventStartFinalityChallenge,
	EventQueried,
	EventPostedErrorPhases,
	EventSelectedPhase,
}

// ErrUnknownEvent is returned when decoding a log of an event the client does not handle.
var ErrUnknownEvent = errors.New("unknown event")

type startChallengeLog struct {
	P    common.Address
	C    common.Address
	S    [32]byte
	E    [32]byte
	Idx1 *big.Int
	Idx2 *big.Int
	Par  *big.Int
	To   *big.Int
	Uniq [32]byte
}

type startFinalityChallengeLog struct {
	P    common.Address
	C    common.Address
	S    [32]byte
	E    [32]byte
	Step *big.Int
	Uniq [32]byte
}

type queriedLog struct {
	Id   [32]byte
	Idx1 *big.Int
	Idx2 *big.Int
}

type postedErrorPhasesLog struct {
	Id   [32]byte
	Idx1 *big.Int
	Arr  [dispute.PhaseCount][32]byte
}

type selectedPhaseLog struct {
	Id    [32]byte
	Idx1  *big.Int
	Phase *big.Int
}

// DecodeEvent decodes a log emitted by the interactive contract.
func DecodeEvent(log types.Log) (dispute.Event, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log without topics: %w", ErrUnknownEvent)
	}
	ev, err := interactiveABI.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", log.Topics[0].Hex(), ErrUnknownEvent)
	}
	pos := dispute.Position{Block: log.BlockNumber, Index: log.Index}

	var (
		d     decoder
		event dispute.Event
	)
	switch ev.Name {
	case EventStartChallenge:
		var out startChallengeLog
		if err := interactiveABI.UnpackIntoInterface(&out, ev.Name, log.Data); err != nil {
			return nil, fmt.Errorf("could not unpack %s: %w", ev.Name, err)
		}
		event = &dispute.ChallengeStarted{
			Pos:        pos,
			ID:         out.Uniq,
			Prover:     out.P,
			Challenger: out.C,
			InitHash:   out.S,
			ResultHash: out.E,
			Idx1:       d.toUint64(out.Idx1),
			Idx2:       d.toUint64(out.Idx2),
			Size:       d.toUint64(out.Par),
			Timeout:    d.toUint64(out.To),
		}

	case EventStartFinalityChallenge:
		var out startFinalityChallengeLog
		if err := interactiveABI.UnpackIntoInterface(&out, ev.Name, log.Data); err != nil {
			return nil, fmt.Errorf("could not unpack %s: %w", ev.Name, err)
		}
		event = &dispute.FinalityChallengeStarted{
			Pos:        pos,
			ID:         out.Uniq,
			Prover:     out.P,
			Challenger: out.C,
			InitHash:   out.S,
			ResultHash: out.E,
			Step:       d.toUint64(out.Step),
		}

	case EventQueried:
		var out queriedLog
		if err := interactiveABI.UnpackIntoInterface(&out, ev.Name, log.Data); err != nil {
			return nil, fmt.Errorf("could not unpack %s: %w", ev.Name, err)
		}
		event = &dispute.Queried{
			Pos:  pos,
			ID:   out.Id,
			Idx1: d.toUint64(out.Idx1),
			Idx2: d.toUint64(out.Idx2),
		}

	case EventPostedErrorPhases:
		var out postedErrorPhasesLog
		if err := interactiveABI.UnpackIntoInterface(&out, ev.Name, log.Data); err != nil {
			return nil, fmt.Errorf("could not unpack %s: %w", ev.Name, err)
		}
		var phases dispute.PhaseStates
		for i, state := range out.Arr {
			phases[i] = state
		}
		event = &dispute.ErrorPhasesPosted{
			Pos:    pos,
			ID:     out.Id,
			Idx1:   d.toUint64(out.Idx1),
			Phases: phases,
		}

	case EventSelectedPhase:
		var out selectedPhaseLog
		if err := interactiveABI.UnpackIntoInterface(&out, ev.Name, log.Data); err != nil {
			return nil, fmt.Errorf("could not unpack %s: %w", ev.Name, err)
		}
		phase := d.toUint64(out.Phase)
		if d.failed == nil && phase >= dispute.PhaseCount {
			return nil, fmt.Errorf("%s carries invalid phase %d", ev.Name, phase)
		}
		event = &dispute.PhaseSelected{
			Pos:   pos,
			ID:    out.Id,
			Idx1:  d.toUint64(out.Idx1),
			Phase: dispute.Phase(phase),
		}
	default:
		return nil, fmt.Errorf("event %s: %w", ev.Name, ErrUnknownEvent)
	}

	if err := d.err(ev.Name); err != nil {
		return nil, err
	}
	return event, nil
}

// decoder converts integers and remembers the first failure.
type decoder struct {
	failed error
}

func (d *decoder) toUint64(n *big.Int) uint64 {
	if d.failed != nil {
		return 0
	}
	if n == nil || !n.IsUint64() {
		d.failed = fmt.Errorf("integer %v out of range", n)
		return 0
	}
	return n.Uint64()
}

func (d *decoder) err(event string) error {
	if d.failed != nil {
		return fmt.Errorf("could not decode %s: %w", event, d.failed)
	}
	return nil
}
