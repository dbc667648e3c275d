package solver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/mempool"
)

// Outcome summarizes a solver run.
type Outcome struct {
	Result common.Hash
	Steps  uint64
	// Degraded is set if the initial state hash differed from the one claimed
	// by the task giver. The task is solved regardless.
	Degraded bool
	// OutputFile is the uploaded output, nil if the task produced none.
	OutputFile *dispute.FileID
	Finalized  bool

	output []byte
}

// Solver runs assigned tasks and submits their solutions. Every solved task
// is registered as a session, so that the reactor answers challenges raised
// against the solution.
type Solver struct {
	log       zerolog.Logger
	config    Config
	tasks     module.TaskClient
	files     module.FileStore
	execution module.ExecutionEngine
	sessions  mempool.Sessions
	metrics   module.SolverMetrics
}

func New(
	log zerolog.Logger,
	config Config,
	tasks module.TaskClient,
	files module.FileStore,
	execution module.ExecutionEngine,
	sessions mempool.Sessions,
	metrics module.SolverMetrics,
) *Solver {
	return &Solver{
		log:       log.With().Str("engine", "dispute_solver").Logger(),
		config:    config,
		tasks:     tasks,
		files:     files,
		execution: execution,
		sessions:  sessions,
		metrics:   metrics,
	}
}

// Run solves the assigned task: it materializes code and input on disk,
// executes the task, submits the solution and, if the task produced output,
// uploads the output and finalizes the task.
func (s *Solver) Run(ctx context.Context, assignment *dispute.Assignment) (*Outcome, error) {
	log := s.log.With().
		Uint64("task_id", uint64(assignment.TaskID)).
		Str("actor", assignment.Actor.Hex()).
		Logger()
	log.Info().Msg("solving task")

	prog, outcome, err := s.execute(ctx, assignment)
	if err != nil {
		return nil, err
	}

	// the session must be known before the solution becomes visible on chain
	s.register(assignment, prog, outcome)
	err = s.tasks.Solve(ctx, assignment.TaskID, outcome.Result, outcome.Steps)
	if err != nil {
		s.sessions.Remove(assignment.TaskID)
		return nil, fmt.Errorf("could not submit solution: %w", err)
	}
	s.metrics.TaskSolved(outcome.Steps, outcome.Degraded)
	log.Info().
		Str("result", outcome.Result.Hex()).
		Uint64("steps", outcome.Steps).
		Msg("solution submitted")

	if outcome.output == nil {
		log.Debug().Msg("task produced no output, skipping finalization")
		return outcome, nil
	}

	file, err := s.files.CreateFile(ctx, s.config.OutputName, outcome.output)
	if err != nil {
		return outcome, fmt.Errorf("could not upload output: %w", err)
	}
	outcome.OutputFile = &file
	root, err := s.files.Root(ctx, file)
	if err != nil {
		log.Warn().Err(err).Str("file_id", file.Hex()).Msg("could not read output file root")
	} else {
		log.Info().Str("file_id", file.Hex()).Str("root", root.Hex()).Msg("uploaded output file")
	}

	proof, err := s.execution.OutputProof(ctx, prog)
	if err != nil {
		return outcome, fmt.Errorf("could not get output proof: %w", err)
	}
	err = s.tasks.FinalizeTask(ctx, assignment.TaskID, file, proof)
	if err != nil {
		return outcome, fmt.Errorf("could not finalize task: %w", err)
	}
	outcome.Finalized = true
	s.metrics.TaskFinalized()
	log.Info().Msg("task finalized")

	return outcome, nil
}

// Resume re-creates the session of a task solved by an earlier run, so that
// challenges against the solution are answered again. Nothing is submitted.
func (s *Solver) Resume(ctx context.Context, assignment *dispute.Assignment) (*Outcome, error) {
	prog, outcome, err := s.execute(ctx, assignment)
	if err != nil {
		return nil, err
	}
	s.register(assignment, prog, outcome)
	s.log.Info().
		Uint64("task_id", uint64(assignment.TaskID)).
		Uint64("steps", outcome.Steps).
		Msg("resumed task session")
	return outcome, nil
}

// execute materializes and runs the task. The initial state hash recorded for
// the task on chain is the claim; the one of the assignment is only checked
// against it. A wrong initial state hash only degrades the outcome.
func (s *Solver) execute(ctx context.Context, assignment *dispute.Assignment) (dispute.Program, *Outcome, error) {
	prog, task, err := s.materialize(ctx, assignment)
	if err != nil {
		return dispute.Program{}, nil, err
	}

	claimed := task.InitHash
	if claimed != assignment.InitHash {
		s.log.Warn().
			Uint64("task_id", uint64(assignment.TaskID)).
			Str("assigned", assignment.InitHash.Hex()).
			Str("recorded", claimed.Hex()).
			Msg("assignment carries an initial state hash different from the task record")
	}

	outcome := &Outcome{}
	initHash, err := s.execution.Initialize(ctx, prog)
	if err != nil {
		return dispute.Program{}, nil, fmt.Errorf("could not initialize task: %w", err)
	}
	if initHash != claimed {
		outcome.Degraded = true
		s.log.Warn().
			Uint64("task_id", uint64(assignment.TaskID)).
			Str("computed", initHash.Hex()).
			Str("claimed", claimed.Hex()).
			Msg("initial state hash differs from the claimed one")
	} else {
		s.log.Info().Uint64("task_id", uint64(assignment.TaskID)).Msg("initial state hash matches")
	}

	result, err := s.execution.Execute(ctx, prog)
	if err != nil {
		return dispute.Program{}, nil, fmt.Errorf("could not execute task: %w", err)
	}
	outcome.Result = result.Result
	outcome.Steps = result.Steps
	outcome.output = result.Output
	return prog, outcome, nil
}

func (s *Solver) register(assignment *dispute.Assignment, prog dispute.Program, outcome *Outcome) {
	s.sessions.Add(&dispute.Session{
		TaskID:  assignment.TaskID,
		Actor:   assignment.Actor,
		Program: prog,
		Steps:   outcome.Steps,
		Result:  outcome.Result,
	})
}

// materialize downloads code and input of the task together with its VM
// parameters and task record, and stores the files in the task directory.
func (s *Solver) materialize(ctx context.Context, assignment *dispute.Assignment) (dispute.Program, *dispute.Task, error) {
	var (
		code   *dispute.File
		input  *dispute.File
		params *dispute.VMParameters
		task   *dispute.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		code, err = s.files.GetFile(gctx, assignment.Code)
		if err != nil {
			return fmt.Errorf("could not fetch code file %s: %w", assignment.Code.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		input, err = s.files.GetFile(gctx, assignment.Input)
		if err != nil {
			return fmt.Errorf("could not fetch input file %s: %w", assignment.Input.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		params, err = s.tasks.VMParameters(gctx, assignment.TaskID)
		if err != nil {
			return fmt.Errorf("could not fetch vm parameters: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		task, err = s.tasks.TaskInfo(gctx, assignment.TaskID)
		if err != nil {
			return fmt.Errorf("could not fetch task info: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dispute.Program{}, nil, err
	}

	prog := dispute.Program{
		Dir:        filepath.Join(s.config.WorkDir, assignment.TaskID.String()),
		CodeFile:   codeFile(assignment.CodeType == dispute.CodeWASM),
		CodeType:   assignment.CodeType,
		InputFiles: []string{s.config.InputFile},
		Params:     *params,
		Fault:      assignment.Fault,
	}
	err := os.MkdirAll(prog.Dir, 0o755)
	if err != nil {
		return dispute.Program{}, nil, fmt.Errorf("could not create task directory: %w", err)
	}
	err = os.WriteFile(prog.CodePath(), code.Data, 0o644)
	if err != nil {
		return dispute.Program{}, nil, fmt.Errorf("could not store code: %w", err)
	}
	err = os.WriteFile(filepath.Join(prog.Dir, s.config.InputFile), input.Data, 0o644)
	if err != nil {
		return dispute.Program{}, nil, fmt.Errorf("could not store input: %w", err)
	}

	s.log.Debug().
		Uint64("task_id", uint64(assignment.TaskID)).
		Str("dir", prog.Dir).
		Str("code_name", code.Name).
		Str("input_name", input.Name).
		Int("code_size", len(code.Data)).
		Int("input_size", len(input.Data)).
		Msg("task materialized")
	return prog, task, nil
}
