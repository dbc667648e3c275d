package reactor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/module/mempool/challenges"
	"github.com/onflow/dispute-client/module/mempool/sessions"
	"github.com/onflow/dispute-client/module/metrics"
	mockmodule "github.com/onflow/dispute-client/module/mock"
	"github.com/onflow/dispute-client/module/proofs"
	"github.com/onflow/dispute-client/storage/inmemory"
	"github.com/onflow/dispute-client/utils/unittest"
)

// harness runs a reactor against mocked contracts and a mocked execution
// engine. Every response sent to the dispute contract is recorded per challenge.
type harness struct {
	t         *testing.T
	me        common.Address
	events    chan dispute.Event
	registry  *challenges.Registry
	sessions  *sessions.Sessions
	tasks     *mockmodule.TaskClient
	disputes  *mockmodule.DisputeClient
	execution *mockmodule.ExecutionEngine
	progress  *inmemory.ConsumerProgress
	engine    *Engine
	step      *dispute.StepData
	finality  *dispute.FinalityProof
	handled   *atomic.Uint64
	sent      uint64

	mu        sync.Mutex
	responses map[dispute.ChallengeID][]string
	judged    map[dispute.ChallengeID]dispute.JudgeArgs
	finalized map[dispute.ChallengeID]dispute.FinalityArgs
	taskOf    map[dispute.ChallengeID]dispute.TaskID
	failing   map[dispute.ChallengeID]bool
}

func newHarness(t *testing.T) *harness {
	log := unittest.Logger()
	handled := atomic.NewUint64(0)
	collector := &handledCounter{NoopCollector: metrics.NewNoopCollector(), handled: handled}

	registry, err := challenges.NewRegistry(log, collector)
	require.NoError(t, err)

	h := &harness{
		t:         t,
		me:        unittest.AddressFixture(),
		events:    make(chan dispute.Event, 64),
		registry:  registry,
		sessions:  sessions.NewSessions(),
		tasks:     mockmodule.NewTaskClient(t),
		disputes:  mockmodule.NewDisputeClient(t),
		execution: mockmodule.NewExecutionEngine(t),
		progress:  inmemory.NewConsumerProgress("events"),
		step:      unittest.StepDataFixture(0),
		handled:   handled,
		finality: &dispute.FinalityProof{
			Location: unittest.HashesFixture(4),
		},
		responses: make(map[dispute.ChallengeID][]string),
		judged:    make(map[dispute.ChallengeID]dispute.JudgeArgs),
		finalized: make(map[dispute.ChallengeID]dispute.FinalityArgs),
		taskOf:    make(map[dispute.ChallengeID]dispute.TaskID),
		failing:   make(map[dispute.ChallengeID]bool),
	}
	_, err = h.progress.InitProcessedIndex(0)
	require.NoError(t, err)

	h.mockExecution()
	h.mockContracts()

	config := DefaultConfig()
	config.Me = h.me
	config.Workers = 4
	h.engine, err = New(log, config, h.events, h.registry, h.sessions, h.tasks, h.disputes, h.execution, h.progress, collector)
	require.NoError(t, err)

	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
	h.engine.Start(ctx)
	unittest.RequireCloseBefore(t, h.engine.Ready(), time.Second, "reactor did not start")
	t.Cleanup(func() {
		cancel()
		unittest.RequireCloseBefore(t, h.engine.Done(), time.Second, "reactor did not stop")
	})
	return h
}

// handledCounter counts the events the reactor finished handling.
type handledCounter struct {
	*metrics.NoopCollector
	handled *atomic.Uint64
}

func (c *handledCounter) LastProcessedBlock(uint64) {
	c.handled.Inc()
}

// stateAt is the state hash the execution engine reports after step of prog.
func stateAt(prog dispute.Program, step uint64) common.Hash {
	return common.BytesToHash([]byte(fmt.Sprintf("%s/%d", prog.Dir, step)))
}

func (h *harness) mockExecution() {
	h.execution.On("Location", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, prog dispute.Program, step uint64) (common.Hash, error) {
			return stateAt(prog, step), nil
		}).Maybe()
	h.execution.On("Step", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, _ dispute.Program, step uint64) (*dispute.StepData, error) {
			return h.step, nil
		}).Maybe()
	h.execution.On("Finality", mock.Anything, mock.Anything, mock.Anything).
		Return(h.finality, nil).Maybe()
}

func (h *harness) mockContracts() {
	h.tasks.On("QueryChallenge", mock.Anything, mock.Anything).
		Return(func(_ context.Context, id dispute.ChallengeID) (dispute.TaskID, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			task, ok := h.taskOf[id]
			if !ok {
				return unittest.TaskIDFixture(), nil
			}
			return task, nil
		}).Maybe()

	h.disputes.On("Report", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, id dispute.ChallengeID, idx1, idx2 uint64, mid common.Hash) error {
			return h.respond(id, fmt.Sprintf("report %d %d %s", idx1, idx2, mid.Hex()))
		}).Maybe()
	h.disputes.On("PostPhases", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, id dispute.ChallengeID, idx1 uint64, states dispute.PhaseStates) error {
			return h.respond(id, fmt.Sprintf("postPhases %d %s", idx1, states[0].Hex()))
		}).Maybe()
	h.disputes.On("SelectErrorPhase", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, id dispute.ChallengeID, idx1 uint64, prior common.Hash, phase dispute.Phase) error {
			return h.respond(id, fmt.Sprintf("selectErrorPhase %d %d %s", idx1, phase, prior.Hex()))
		}).Maybe()
	h.disputes.On("CallJudge", mock.Anything, mock.Anything).
		Return(func(_ context.Context, args dispute.JudgeArgs) error {
			h.mu.Lock()
			h.judged[args.Challenge] = args
			h.mu.Unlock()
			return h.respond(args.Challenge, fmt.Sprintf("callJudge %d %d", args.Idx1, args.Phase))
		}).Maybe()
	h.disputes.On("CallFinalityJudge", mock.Anything, mock.Anything).
		Return(func(_ context.Context, args dispute.FinalityArgs) error {
			h.mu.Lock()
			h.finalized[args.Challenge] = args
			h.mu.Unlock()
			return h.respond(args.Challenge, fmt.Sprintf("callFinalityJudge %d", args.Idx1))
		}).Maybe()
}

func (h *harness) respond(id dispute.ChallengeID, response string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failing[id] {
		return errors.New("transaction underpriced")
	}
	h.responses[id] = append(h.responses[id], response)
	return nil
}

// solving registers a session for a new task and routes the challenge to it.
func (h *harness) solving(id dispute.ChallengeID, dir string, steps uint64) *dispute.Session {
	session := unittest.SessionFixture(func(s *dispute.Session) {
		s.Actor = h.me
		s.Program.Dir = dir
		s.Steps = steps
	})
	h.sessions.Add(session)
	h.mu.Lock()
	h.taskOf[id] = session.TaskID
	h.mu.Unlock()
	return session
}

func (h *harness) fail(id dispute.ChallengeID, failing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failing[id] = failing
}

func (h *harness) responsesOf(id dispute.ChallengeID) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.responses[id]...)
}

// send feeds the events and waits until all of them were handled.
func (h *harness) send(events ...dispute.Event) {
	for _, ev := range events {
		h.events <- ev
	}
	h.sent += uint64(len(events))
	require.Eventually(h.t, func() bool {
		return h.handled.Load() >= h.sent
	}, 5*time.Second, 10*time.Millisecond, "events were not handled")
}

func (h *harness) started(block uint64, id dispute.ChallengeID, idx1, idx2 uint64) *dispute.ChallengeStarted {
	return &dispute.ChallengeStarted{
		Pos:        dispute.Position{Block: block},
		ID:         id,
		Prover:     h.me,
		Challenger: unittest.AddressFixture(),
		Idx1:       idx1,
		Idx2:       idx2,
		Size:       idx2 - idx1,
	}
}

func queried(block uint64, id dispute.ChallengeID, idx1, idx2 uint64) *dispute.Queried {
	return &dispute.Queried{Pos: dispute.Position{Block: block}, ID: id, Idx1: idx1, Idx2: idx2}
}

func report(prog dispute.Program, idx1, idx2 uint64) string {
	mid := (idx2-idx1)/2 + idx1
	return fmt.Sprintf("report %d %d %s", idx1, idx2, stateAt(prog, mid).Hex())
}

// TestEngine_FullGame plays a whole bisection game over 16 steps: four midpoint
// reports, the phase states of the single disputed step, the error phase and
// finally one judge call.
func TestEngine_FullGame(t *testing.T) {
	h := newHarness(t)
	id := unittest.ChallengeIDFixture()
	session := h.solving(id, "/tmp/full", 16)

	claimed := h.step.States
	claimed[5] = unittest.HashFixture()

	h.send(
		h.started(10, id, 0, 16),
		queried(11, id, 0, 8),
		queried(12, id, 0, 4),
		queried(13, id, 0, 2),
		queried(14, id, 0, 1),
		&dispute.ErrorPhasesPosted{Pos: dispute.Position{Block: 15}, ID: id, Idx1: 0, Phases: claimed},
		&dispute.PhaseSelected{Pos: dispute.Position{Block: 16}, ID: id, Idx1: 0, Phase: dispute.Phase(4)},
	)

	assert.Equal(t, []string{
		report(session.Program, 0, 16),
		report(session.Program, 0, 8),
		report(session.Program, 0, 4),
		report(session.Program, 0, 2),
		fmt.Sprintf("postPhases 0 %s", h.step.States[0].Hex()),
		fmt.Sprintf("selectErrorPhase 0 4 %s", claimed[4].Hex()),
		"callJudge 0 4",
	}, h.responsesOf(id))

	expected, err := proofs.JudgeArgs(id, h.step, dispute.Phase(4))
	require.NoError(t, err)
	h.mu.Lock()
	assert.Equal(t, expected, h.judged[id])
	h.mu.Unlock()

	// the finished challenge is evicted and later events are ignored
	assert.False(t, h.registry.BelongsToMe(id))
	assert.Equal(t, uint(0), h.registry.Size())
	h.send(queried(17, id, 0, 1))
	assert.Len(t, h.responsesOf(id), 7)

	index, err := h.progress.ProcessedIndex()
	require.NoError(t, err)
	assert.Equal(t, uint64(17), index)
}

// TestEngine_AllPhasesAgree selects the last phase when the claimed states
// match the local ones from phase 1 on.
func TestEngine_AllPhasesAgree(t *testing.T) {
	h := newHarness(t)
	id := unittest.ChallengeIDFixture()
	h.solving(id, "/tmp/agree", 1)

	h.send(
		h.started(1, id, 0, 1),
		&dispute.ErrorPhasesPosted{Pos: dispute.Position{Block: 2}, ID: id, Idx1: 0, Phases: h.step.States},
	)

	responses := h.responsesOf(id)
	require.Len(t, responses, 2)
	assert.Equal(t, fmt.Sprintf("selectErrorPhase 0 11 %s", h.step.States[11].Hex()), responses[1])

	challenge, err := h.registry.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, dispute.StatePhaseSelection, challenge.State)
	assert.Equal(t, dispute.PhaseMemsize, challenge.Phase)
}

// TestEngine_ForeignEvents checks that events not concerning this process
// neither mutate the registry nor send transactions.
func TestEngine_ForeignEvents(t *testing.T) {
	h := newHarness(t)
	foreign := h.started(1, unittest.ChallengeIDFixture(), 0, 16)
	foreign.Prover = unittest.AddressFixture()
	unknownTask := h.started(2, unittest.ChallengeIDFixture(), 0, 16)
	foreignFinality := &dispute.FinalityChallengeStarted{
		Pos:    dispute.Position{Block: 3},
		ID:     unittest.ChallengeIDFixture(),
		Prover: unittest.AddressFixture(),
		Step:   16,
	}
	unknown := unittest.ChallengeIDFixture()

	h.send(
		foreign,
		unknownTask,
		foreignFinality,
		queried(4, unknown, 0, 8),
		&dispute.ErrorPhasesPosted{Pos: dispute.Position{Block: 5}, ID: unknown},
		&dispute.PhaseSelected{Pos: dispute.Position{Block: 6}, ID: unknown, Phase: dispute.PhaseALU},
	)

	assert.Equal(t, uint(0), h.registry.Size())
	h.mu.Lock()
	assert.Empty(t, h.responses)
	h.mu.Unlock()
	// only the challenge addressed to us was resolved to its task
	h.tasks.AssertNumberOfCalls(t, "QueryChallenge", 1)
}

// TestEngine_Finality answers a finality challenge in its single round.
func TestEngine_Finality(t *testing.T) {
	h := newHarness(t)
	id := unittest.ChallengeIDFixture()
	session := h.solving(id, "/tmp/finality", 42)

	h.send(&dispute.FinalityChallengeStarted{
		Pos:    dispute.Position{Block: 7},
		ID:     id,
		Prover: h.me,
		Step:   42,
	})

	assert.Equal(t, []string{"callFinalityJudge 42"}, h.responsesOf(id))
	h.mu.Lock()
	assert.Equal(t, proofs.FinalityArgs(id, session.Steps, h.finality), h.finalized[id])
	h.mu.Unlock()
	assert.False(t, h.registry.BelongsToMe(id))
	h.execution.AssertCalled(t, "Finality", mock.Anything, session.Program, uint64(42))
}

// TestEngine_Replay checks that redelivered events produce the same responses.
func TestEngine_Replay(t *testing.T) {
	h := newHarness(t)
	id := unittest.ChallengeIDFixture()
	session := h.solving(id, "/tmp/replay", 16)

	start := h.started(1, id, 0, 16)
	h.send(start, start)
	assert.Equal(t, []string{
		report(session.Program, 0, 16),
		report(session.Program, 0, 16),
	}, h.responsesOf(id))

	// a start replayed after the interval narrowed is stale
	h.send(queried(2, id, 0, 8), start, queried(3, id, 0, 8))
	assert.Equal(t, []string{
		report(session.Program, 0, 16),
		report(session.Program, 0, 16),
		report(session.Program, 0, 8),
		report(session.Program, 0, 8),
	}, h.responsesOf(id))

	// a query widening the interval is ignored
	h.send(queried(4, id, 0, 16))
	assert.Len(t, h.responsesOf(id), 4)
	challenge, err := h.registry.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, dispute.Interval{Idx1: 0, Idx2: 8}, challenge.Interval)
}

// TestEngine_ReplayAfterFinish checks that the events of a finished challenge
// are not answered again when they are redelivered.
func TestEngine_ReplayAfterFinish(t *testing.T) {
	h := newHarness(t)

	t.Run("bisection", func(t *testing.T) {
		id := unittest.ChallengeIDFixture()
		session := h.solving(id, "/tmp/replayed", 2)
		start := h.started(1, id, 0, 2)
		h.send(
			start,
			queried(2, id, 0, 1),
			&dispute.ErrorPhasesPosted{Pos: dispute.Position{Block: 3}, ID: id, Idx1: 0, Phases: h.step.States},
			&dispute.PhaseSelected{Pos: dispute.Position{Block: 4}, ID: id, Idx1: 0, Phase: dispute.PhaseALU},
		)
		require.Len(t, h.responsesOf(id), 4)
		require.True(t, h.registry.Finished(id))

		h.send(start, queried(2, id, 0, 1))
		assert.Equal(t, report(session.Program, 0, 2), h.responsesOf(id)[0])
		assert.Len(t, h.responsesOf(id), 4)
		assert.False(t, h.registry.BelongsToMe(id))
		assert.Equal(t, uint(0), h.registry.Size())
	})

	t.Run("finality", func(t *testing.T) {
		id := unittest.ChallengeIDFixture()
		h.solving(id, "/tmp/replayed-finality", 42)
		start := &dispute.FinalityChallengeStarted{
			Pos:    dispute.Position{Block: 5},
			ID:     id,
			Prover: h.me,
			Step:   42,
		}
		h.send(start, start)

		assert.Equal(t, []string{"callFinalityJudge 42"}, h.responsesOf(id))
		assert.False(t, h.registry.BelongsToMe(id))
	})
}

// TestEngine_IntervalBeyondSteps checks that a challenge whose interval ends
// after the last step of the task is neither registered nor answered.
func TestEngine_IntervalBeyondSteps(t *testing.T) {
	h := newHarness(t)
	id := unittest.ChallengeIDFixture()
	h.solving(id, "/tmp/short", 16)

	h.send(h.started(1, id, 0, 1000))

	assert.Empty(t, h.responsesOf(id))
	assert.False(t, h.registry.BelongsToMe(id))
	h.execution.AssertNotCalled(t, "Location", mock.Anything, mock.Anything, mock.Anything)
}

// TestEngine_FailedJudgeCall checks that a failed judge call leaves the
// challenge in phase selection and a redelivered selection calls the judge again.
func TestEngine_FailedJudgeCall(t *testing.T) {
	h := newHarness(t)
	id := unittest.ChallengeIDFixture()
	h.solving(id, "/tmp/judge", 1)
	selected := &dispute.PhaseSelected{Pos: dispute.Position{Block: 3}, ID: id, Idx1: 0, Phase: dispute.PhaseALU}

	h.send(
		h.started(1, id, 0, 1),
		&dispute.ErrorPhasesPosted{Pos: dispute.Position{Block: 2}, ID: id, Idx1: 0, Phases: h.step.States},
	)
	h.fail(id, true)
	h.send(selected)

	challenge, err := h.registry.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, dispute.StatePhaseSelection, challenge.State)

	h.fail(id, false)
	h.send(selected)
	responses := h.responsesOf(id)
	require.Len(t, responses, 3)
	assert.Equal(t, fmt.Sprintf("callJudge 0 %d", dispute.PhaseALU), responses[2])
	assert.True(t, h.registry.Finished(id))
}

// TestEngine_FailedResponse checks that a failed submission neither stops the
// reactor nor affects other challenges.
func TestEngine_FailedResponse(t *testing.T) {
	h := newHarness(t)
	a := unittest.ChallengeIDFixture()
	b := unittest.ChallengeIDFixture()
	sessionA := h.solving(a, "/tmp/a", 16)
	sessionB := h.solving(b, "/tmp/b", 16)

	h.fail(a, true)
	h.send(h.started(1, a, 0, 16), h.started(2, b, 0, 16))
	assert.Empty(t, h.responsesOf(a))
	assert.Equal(t, []string{report(sessionB.Program, 0, 16)}, h.responsesOf(b))

	// the challenge stays registered and later rounds are answered
	assert.True(t, h.registry.BelongsToMe(a))
	h.fail(a, false)
	h.send(queried(3, a, 8, 16))
	assert.Equal(t, []string{report(sessionA.Program, 8, 16)}, h.responsesOf(a))
}

// TestEngine_Interleaved checks that interleaving the events of two
// challenges yields the same responses as handling them one after the other.
func TestEngine_Interleaved(t *testing.T) {
	a := unittest.ChallengeIDFixture()
	b := unittest.ChallengeIDFixture()

	run := func(interleave bool) map[dispute.ChallengeID][]string {
		h := newHarness(t)
		h.solving(a, "/tmp/a", 16)
		h.solving(b, "/tmp/b", 32)

		gameA := []dispute.Event{h.started(1, a, 0, 16), queried(2, a, 8, 16), queried(3, a, 8, 12), queried(4, a, 10, 12)}
		gameB := []dispute.Event{h.started(1, b, 0, 32), queried(2, b, 0, 16), queried(3, b, 0, 8), queried(4, b, 4, 8)}

		if interleave {
			var events []dispute.Event
			for i := range gameA {
				events = append(events, gameA[i], gameB[i])
			}
			h.send(events...)
		} else {
			h.send(gameA...)
			h.send(gameB...)
		}
		return map[dispute.ChallengeID][]string{
			a: h.responsesOf(a),
			b: h.responsesOf(b),
		}
	}

	sequential := run(false)
	interleaved := run(true)
	require.Len(t, sequential[a], 4)
	require.Len(t, sequential[b], 4)
	assert.Equal(t, sequential, interleaved)
}
