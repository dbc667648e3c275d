package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
)

const (
	commandInit     = "init"
	commandExecute  = "execute"
	commandLocation = "location"
	commandStep     = "step"
	commandFinality = "finality"
	commandOutput   = "output_proof"
)

// stepKey identifies a step of a program. Programs with different faults
// produce different steps.
type stepKey struct {
	code  string
	fault string
	step  uint64
}

// Interpreter is the execution engine backed by the off-chain interpreter binary.
// Every request is a separate invocation that prints a JSON document on stdout.
type Interpreter struct {
	log     zerolog.Logger
	config  Config
	runner  Runner
	metrics module.ExecutionMetrics
	steps   *lru.Cache[stepKey, *dispute.StepData]
}

var _ module.ExecutionEngine = (*Interpreter)(nil)

// NewInterpreter creates an execution engine that invokes config.Interpreter.
// A nil runner runs the binary as a subprocess.
func NewInterpreter(log zerolog.Logger, config Config, runner Runner, metrics module.ExecutionMetrics) (*Interpreter, error) {
	if runner == nil {
		runner = &CommandRunner{Path: config.Interpreter}
	}
	steps, err := lru.New[stepKey, *dispute.StepData](int(config.StepCacheSize))
	if err != nil {
		return nil, fmt.Errorf("could not create step cache: %w", err)
	}
	return &Interpreter{
		log:     log.With().Str("module", "interpreter").Logger(),
		config:  config,
		runner:  runner,
		metrics: metrics,
		steps:   steps,
	}, nil
}

// Initialize runs the initialization of the program and returns the initial state hash.
func (e *Interpreter) Initialize(ctx context.Context, prog dispute.Program) (common.Hash, error) {
	var res wireResult
	if err := e.run(ctx, commandInit, prog, &res, "-input"); err != nil {
		return common.Hash{}, err
	}
	return res.Hash.value(), nil
}

// Execute runs the program to completion. The output the task wrote to the
// output file, if any, is returned along with the result.
func (e *Interpreter) Execute(ctx context.Context, prog dispute.Program) (*dispute.ExecutionResult, error) {
	var res wireResult
	if err := e.run(ctx, commandExecute, prog, &res, "-output"); err != nil {
		return nil, err
	}

	result := &dispute.ExecutionResult{
		Result: res.Hash.value(),
		Steps:  uint64(res.Steps),
	}
	output, err := os.ReadFile(filepath.Join(prog.Dir, e.config.OutputFile))
	switch {
	case err == nil:
		result.Output = output
	case errors.Is(err, os.ErrNotExist):
		e.log.Debug().Str("dir", prog.Dir).Msg("task produced no output file")
	default:
		return nil, fmt.Errorf("could not read task output: %w", err)
	}
	return result, nil
}

// Location returns the state hash after the given number of steps.
func (e *Interpreter) Location(ctx context.Context, prog dispute.Program, step uint64) (common.Hash, error) {
	var h hash
	if err := e.run(ctx, commandLocation, prog, &h, "-location", strconv.FormatUint(step, 10)); err != nil {
		return common.Hash{}, err
	}
	return h.value(), nil
}

// Step returns the phase states and proofs of a single step. Steps are cached:
// the same step is requested once for postPhases and again for callJudge.
func (e *Interpreter) Step(ctx context.Context, prog dispute.Program, step uint64) (*dispute.StepData, error) {
	key := stepKey{code: prog.CodePath(), fault: faultKey(prog.Fault), step: step}
	if data, ok := e.steps.Get(key); ok {
		e.metrics.StepCacheHit()
		return data, nil
	}
	e.metrics.StepCacheMiss()

	var raw json.RawMessage
	if err := e.run(ctx, commandStep, prog, &raw, "-step", strconv.FormatUint(step, 10)); err != nil {
		return nil, err
	}
	data, err := decodeStep(raw, step)
	if err != nil {
		return nil, err
	}
	e.steps.Add(key, data)
	return data, nil
}

// Finality returns the proof that the machine halted after the given number of steps.
func (e *Interpreter) Finality(ctx context.Context, prog dispute.Program, steps uint64) (*dispute.FinalityProof, error) {
	var res wireFinality
	if err := e.run(ctx, commandFinality, prog, &res, "-final", strconv.FormatUint(steps, 10)); err != nil {
		return nil, err
	}
	return res.model()
}

// OutputProof returns the final VM and the location of the output file in it.
func (e *Interpreter) OutputProof(ctx context.Context, prog dispute.Program) (*dispute.OutputProof, error) {
	var res wireOutputProof
	if err := e.run(ctx, commandOutput, prog, &res, "-output-proof"); err != nil {
		return nil, err
	}
	return res.model()
}

func (e *Interpreter) run(ctx context.Context, command string, prog dispute.Program, out interface{}, flags ...string) error {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	args := e.arguments(prog, flags...)
	start := time.Now()
	stdout, err := e.runner.Run(ctx, prog.Dir, args)
	duration := time.Since(start)
	e.metrics.EngineCallFinished(command, duration)
	if err != nil {
		return fmt.Errorf("could not run interpreter %s: %w", command, err)
	}

	e.log.Debug().
		Str("command", command).
		Str("code", prog.CodeFile).
		Dur("duration", duration).
		Msg("interpreter finished")

	if err := json.Unmarshal(stdout, out); err != nil {
		return fmt.Errorf("could not decode %s output: %v: %w", command, err, ErrMalformedOutput)
	}
	return nil
}

// arguments builds the interpreter command line. The order is: merkleization
// flag, configured extras, VM sizing, input files, fault injection, command
// flags, code.
func (e *Interpreter) arguments(prog dispute.Program, flags ...string) []string {
	args := []string{"-m"}
	args = append(args, e.config.ExtraArgs...)

	params := []struct {
		flag  string
		value uint8
	}{
		{"-memory-size", prog.Params.MemorySize},
		{"-stack-size", prog.Params.StackSize},
		{"-table-size", prog.Params.TableSize},
		{"-globals-size", prog.Params.GlobalsSize},
		{"-call-stack-size", prog.Params.CallSize},
	}
	for _, p := range params {
		if p.value != 0 {
			args = append(args, p.flag, strconv.Itoa(int(p.value)))
		}
	}

	for _, file := range prog.InputFiles {
		args = append(args, "-file", file)
	}
	if prog.Fault != nil {
		args = append(args, "-insert-error", strconv.FormatUint(prog.Fault.ErrorStep, 10))
	}
	args = append(args, flags...)

	if prog.CodeType == dispute.CodeWASM {
		return append(args, "-wasm", prog.CodeFile)
	}
	return append(args, "-case", "0", prog.CodeFile)
}

func faultKey(f *dispute.Fault) string {
	if f == nil {
		return ""
	}
	return strconv.FormatUint(f.ErrorStep, 10)
}
