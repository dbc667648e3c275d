package reactor

import (
	"context"
	"errors"
	"fmt"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/bisection"
	"github.com/onflow/dispute-client/module/mempool"
)

// contract methods, used as metric labels
const (
	methodReport            = "report"
	methodPostPhases        = "postPhases"
	methodSelectErrorPhase  = "selectErrorPhase"
	methodCallJudge         = "callJudge"
	methodCallFinalityJudge = "callFinalityJudge"
)

// onChallengeStarted registers a bisection challenge against one of our
// solutions and answers the first round.
func (e *Engine) onChallengeStarted(ctx context.Context, ev *dispute.ChallengeStarted) error {
	if ev.Prover != e.me {
		e.ignore(ev, "challenge addressed to another prover")
		return nil
	}
	if e.challenges.Finished(ev.ID) {
		e.ignore(ev, "challenge already finished")
		return nil
	}
	interval := dispute.Interval{Idx1: ev.Idx1, Idx2: ev.Idx2}
	if e.challenges.BelongsToMe(ev.ID) {
		// a replayed start is answered again as long as the first round is open
		challenge, err := e.challenges.Lookup(ev.ID)
		if err != nil || challenge.State != dispute.StateBisecting || challenge.Interval != interval {
			e.ignore(ev, "challenge already registered")
			return nil
		}
		session, err := e.registeredSession(challenge)
		if err != nil {
			return err
		}
		return e.reply(ctx, session, challenge)
	}

	session, ok, err := e.sessionOf(ctx, ev.ID)
	if err != nil {
		return err
	}
	if !ok {
		e.ignore(ev, "challenge against a task not solved by this process")
		return nil
	}
	if ev.Idx2 > session.Steps {
		e.log.Warn().
			Hex("challenge_id", ev.ID[:]).
			Str("interval", interval.String()).
			Uint64("steps", session.Steps).
			Msg("ignoring challenge beyond the last step of the task")
		e.metrics.OnEventIgnored(ev.Name())
		return nil
	}

	challenge := &dispute.Challenge{
		ID:         ev.ID,
		TaskID:     session.TaskID,
		Kind:       dispute.KindBisection,
		Role:       dispute.RoleProver,
		Prover:     ev.Prover,
		Challenger: ev.Challenger,
		InitHash:   ev.InitHash,
		ResultHash: ev.ResultHash,
		Size:       ev.Size,
		Interval:   interval,
		State:      dispute.StateBisecting,
	}
	err = e.challenges.Register(challenge)
	if err != nil {
		return fmt.Errorf("could not register challenge: %w", err)
	}
	e.log.Info().
		Hex("challenge_id", ev.ID[:]).
		Uint64("task_id", uint64(session.TaskID)).
		Str("challenger", ev.Challenger.Hex()).
		Str("interval", challenge.Interval.String()).
		Msg("challenge started")

	return e.reply(ctx, session, challenge)
}

// onQueried narrows the interval to the one queried by the challenger and
// answers the round.
func (e *Engine) onQueried(ctx context.Context, ev *dispute.Queried) error {
	if !e.challenges.BelongsToMe(ev.ID) {
		e.ignore(ev, "unknown challenge")
		return nil
	}

	challenge, err := e.challenges.Narrow(ev.ID, dispute.Interval{Idx1: ev.Idx1, Idx2: ev.Idx2})
	if errors.Is(err, mempool.ErrWidening) {
		e.log.Warn().Err(err).Hex("challenge_id", ev.ID[:]).Msg("ignoring query outside of the disputed interval")
		e.metrics.OnEventIgnored(ev.Name())
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not narrow interval: %w", err)
	}

	session, err := e.registeredSession(challenge)
	if err != nil {
		return err
	}
	return e.reply(ctx, session, challenge)
}

// reply answers a bisection round: the state hash at the midpoint while the
// interval spans several steps, the phase states once it is a single step.
func (e *Engine) reply(ctx context.Context, session *dispute.Session, challenge *dispute.Challenge) error {
	interval := challenge.Interval
	action, step, err := bisection.Decide(interval)
	if err != nil {
		return err
	}

	switch action {
	case bisection.Subdivide:
		hash, err := e.execution.Location(ctx, session.Program, step)
		if err != nil {
			e.metrics.OnResponseFailed(methodReport)
			return fmt.Errorf("could not get state at step %d: %w", step, err)
		}
		err = e.disputes.Report(ctx, challenge.ID, interval.Idx1, interval.Idx2, hash)
		if err != nil {
			e.metrics.OnResponseFailed(methodReport)
			return err
		}
		e.metrics.OnResponseSent(methodReport)

	case bisection.PostPhases:
		data, err := e.assembler.StepProof(ctx, session, step)
		if err != nil {
			e.metrics.OnResponseFailed(methodPostPhases)
			return err
		}
		err = e.disputes.PostPhases(ctx, challenge.ID, step, data.States)
		if err != nil {
			e.metrics.OnResponseFailed(methodPostPhases)
			return err
		}
		e.metrics.OnResponseSent(methodPostPhases)
		_, err = e.challenges.Transition(challenge.ID, dispute.StatePhaseSelection, challenge.Phase)
		if err != nil {
			return fmt.Errorf("could not move challenge to phase selection: %w", err)
		}
	}

	e.log.Debug().
		Hex("challenge_id", challenge.ID[:]).
		Str("interval", interval.String()).
		Str("action", action.String()).
		Uint64("step", step).
		Int("rounds_left", bisection.Rounds(interval.Width())).
		Msg("answered bisection round")
	return nil
}

// onErrorPhasesPosted compares the claimed phase states with our own and
// selects the phase preceding the first disagreement.
func (e *Engine) onErrorPhasesPosted(ctx context.Context, ev *dispute.ErrorPhasesPosted) error {
	challenge, ok := e.lookup(ev)
	if !ok {
		return nil
	}
	session, err := e.registeredSession(challenge)
	if err != nil {
		return err
	}

	data, err := e.assembler.StepProof(ctx, session, ev.Idx1)
	if err != nil {
		e.metrics.OnResponseFailed(methodSelectErrorPhase)
		return err
	}
	phase, prior := data.States.FirstDisagreement(ev.Phases)

	err = e.disputes.SelectErrorPhase(ctx, ev.ID, ev.Idx1, prior, phase)
	if err != nil {
		e.metrics.OnResponseFailed(methodSelectErrorPhase)
		return err
	}
	e.metrics.OnResponseSent(methodSelectErrorPhase)

	_, err = e.challenges.Transition(ev.ID, dispute.StatePhaseSelection, phase)
	if err != nil {
		return fmt.Errorf("could not record selected phase: %w", err)
	}
	e.log.Info().
		Hex("challenge_id", ev.ID[:]).
		Uint64("step", ev.Idx1).
		Str("phase", phase.String()).
		Msg("selected error phase")
	return nil
}

// onPhaseSelected submits the proof of the selected phase to the judge. The
// challenge is finished once the proof was sent; a failed call leaves it in
// phase selection so that a redelivered event calls the judge again.
func (e *Engine) onPhaseSelected(ctx context.Context, ev *dispute.PhaseSelected) error {
	challenge, ok := e.lookup(ev)
	if !ok {
		return nil
	}
	session, err := e.registeredSession(challenge)
	if err != nil {
		return err
	}

	args, err := e.assembler.Judge(ctx, session, ev.ID, ev.Idx1, ev.Phase)
	if err != nil {
		e.metrics.OnResponseFailed(methodCallJudge)
		return err
	}
	err = e.disputes.CallJudge(ctx, args)
	if err != nil {
		e.metrics.OnResponseFailed(methodCallJudge)
		return err
	}
	e.metrics.OnResponseSent(methodCallJudge)

	_, err = e.challenges.Transition(ev.ID, dispute.StateJudging, ev.Phase)
	if err != nil {
		return fmt.Errorf("could not move challenge to judging: %w", err)
	}
	return e.finish(ev.ID, ev.Phase)
}

// onFinalityChallengeStarted answers a finality challenge in its single round.
func (e *Engine) onFinalityChallengeStarted(ctx context.Context, ev *dispute.FinalityChallengeStarted) error {
	if ev.Prover != e.me {
		e.ignore(ev, "challenge addressed to another prover")
		return nil
	}
	if e.challenges.Finished(ev.ID) {
		e.ignore(ev, "challenge already finished")
		return nil
	}
	if e.challenges.BelongsToMe(ev.ID) {
		// registered but not finished, the judge call is sent again
		challenge, err := e.challenges.Lookup(ev.ID)
		if err != nil {
			e.ignore(ev, "challenge already finished")
			return nil
		}
		session, err := e.registeredSession(challenge)
		if err != nil {
			return err
		}
		return e.judgeFinality(ctx, session, ev.ID)
	}

	session, ok, err := e.sessionOf(ctx, ev.ID)
	if err != nil {
		return err
	}
	if !ok {
		e.ignore(ev, "challenge against a task not solved by this process")
		return nil
	}

	err = e.challenges.Register(&dispute.Challenge{
		ID:         ev.ID,
		TaskID:     session.TaskID,
		Kind:       dispute.KindFinality,
		Role:       dispute.RoleProver,
		Prover:     ev.Prover,
		Challenger: ev.Challenger,
		InitHash:   ev.InitHash,
		ResultHash: ev.ResultHash,
		State:      dispute.StateJudging,
	})
	if err != nil {
		return fmt.Errorf("could not register challenge: %w", err)
	}
	e.log.Info().
		Hex("challenge_id", ev.ID[:]).
		Uint64("task_id", uint64(session.TaskID)).
		Uint64("steps", session.Steps).
		Msg("finality challenge started")

	return e.judgeFinality(ctx, session, ev.ID)
}

func (e *Engine) judgeFinality(ctx context.Context, session *dispute.Session, id dispute.ChallengeID) error {
	args, err := e.assembler.Finality(ctx, session, id)
	if err != nil {
		e.metrics.OnResponseFailed(methodCallFinalityJudge)
		return err
	}
	err = e.disputes.CallFinalityJudge(ctx, args)
	if err != nil {
		e.metrics.OnResponseFailed(methodCallFinalityJudge)
		return err
	}
	e.metrics.OnResponseSent(methodCallFinalityJudge)

	return e.finish(id, dispute.PhaseFetch)
}

// finish marks the challenge terminal and evicts it.
func (e *Engine) finish(id dispute.ChallengeID, phase dispute.Phase) error {
	_, err := e.challenges.Transition(id, dispute.StateTerminal, phase)
	if err != nil {
		return fmt.Errorf("could not finish challenge: %w", err)
	}
	err = e.challenges.Evict(id)
	if err != nil {
		return fmt.Errorf("could not evict challenge: %w", err)
	}
	e.log.Info().Hex("challenge_id", id[:]).Msg("challenge answered to the end")
	return nil
}

// sessionOf resolves the task a challenge was raised against and returns its
// session, if the task is solved by this process.
func (e *Engine) sessionOf(ctx context.Context, id dispute.ChallengeID) (*dispute.Session, bool, error) {
	task, err := e.tasks.QueryChallenge(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("could not resolve task of challenge: %w", err)
	}
	session, ok := e.sessions.ByTask(task)
	return session, ok, nil
}

// registeredSession returns the session of a registered challenge.
func (e *Engine) registeredSession(challenge *dispute.Challenge) (*dispute.Session, error) {
	session, ok := e.sessions.ByTask(challenge.TaskID)
	if !ok {
		return nil, fmt.Errorf("no session for task %d of registered challenge", challenge.TaskID)
	}
	return session, nil
}

// lookup returns the registered challenge an event refers to.
func (e *Engine) lookup(ev dispute.Event) (*dispute.Challenge, bool) {
	challenge, err := e.challenges.Lookup(ev.ChallengeID())
	if err != nil {
		e.ignore(ev, "unknown challenge")
		return nil, false
	}
	return challenge, true
}

func (e *Engine) ignore(ev dispute.Event, reason string) {
	id := ev.ChallengeID()
	e.log.Debug().
		Hex("challenge_id", id[:]).
		Str("event", ev.Name()).
		Str("reason", reason).
		Msg("ignoring event")
	e.metrics.OnEventIgnored(ev.Name())
}
