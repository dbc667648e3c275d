package config

import (
	"strings"

	"github.com/spf13/pflag"
)

const (
	// All constant strings are config keys; the corresponding CLI flag replaces dots with dashes.
	rpc         = "rpc"
	privateKey  = "private-key"
	chainID     = "chain-id"
	startBlock  = "start-block"
	dataDir     = "datadir"
	storage     = "storage"
	metricsAddr = "metrics-addr"
	logLevel    = "loglevel"
	// contracts
	tasksContract       = "contracts.tasks"
	interactiveContract = "contracts.interactive"
	filesystemContract  = "contracts.filesystem"
	// dispatcher
	dispatcherTimeout         = "dispatcher.timeout"
	dispatcherRetries         = "dispatcher.retries"
	dispatcherRetryDelay      = "dispatcher.retry-delay"
	dispatcherDryRun          = "dispatcher.dry-run"
	dispatcherRateLimit       = "dispatcher.rate-limit"
	dispatcherRateBurst       = "dispatcher.rate-burst"
	dispatcherBreakerFailures = "dispatcher.breaker-failures"
	dispatcherBreakerTimeout  = "dispatcher.breaker-timeout"
	// executor
	executorInterpreter   = "executor.interpreter"
	executorExtraArgs     = "executor.extra-args"
	executorTimeout       = "executor.timeout"
	executorStepCacheSize = "executor.step-cache-size"
	executorOutputFile    = "executor.output-file"
	// reactor
	reactorWorkers            = "reactor.workers"
	reactorFinishedChallenges = "reactor.finished-challenges"
	// solver
	solverWorkDir    = "solver.work-dir"
	solverInputFile  = "solver.input-file"
	solverOutputName = "solver.output-name"
)

func AllKeys() []string {
	return []string{
		rpc, privateKey, chainID, startBlock, dataDir, storage, metricsAddr, logLevel,
		tasksContract, interactiveContract, filesystemContract,
		dispatcherTimeout, dispatcherRetries, dispatcherRetryDelay, dispatcherDryRun, dispatcherRateLimit,
		dispatcherRateBurst, dispatcherBreakerFailures, dispatcherBreakerTimeout,
		executorInterpreter, executorExtraArgs, executorTimeout, executorStepCacheSize, executorOutputFile,
		reactorWorkers, reactorFinishedChallenges,
		solverWorkDir, solverInputFile, solverOutputName,
	}
}

// FlagName returns the CLI flag of a config key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, ".", "-")
}

// InitializeFlags registers a flag for every config key on the provided flag set.
// Args:
//
//	*pflag.FlagSet: the flag set of the command.
//	*Config: the config providing the flag defaults.
func InitializeFlags(flags *pflag.FlagSet, config *Config) {
	flags.String(FlagName(rpc), config.RPC, "websocket or IPC endpoint of the Ethereum node")
	flags.String(FlagName(privateKey), config.PrivateKey, "hex encoded private key of the solving account, prefer the CHALLENGER_PRIVATE_KEY environment variable")
	flags.Uint64(FlagName(chainID), config.ChainID, "chain id used for signing transactions, 0 queries the node")
	flags.Uint64(FlagName(startBlock), config.StartBlock, "first block scanned for contract events when no checkpoint is stored")
	flags.String(FlagName(dataDir), config.DataDir, "directory of the challenge database")
	flags.String(FlagName(storage), config.Storage, "storage engine of the challenge database, one of pebble, badger or memory")
	flags.String(FlagName(metricsAddr), config.MetricsAddr, "listen address of the metrics server, empty disables it")
	flags.String(FlagName(logLevel), config.LogLevel, "level for logging output")

	flags.String(FlagName(tasksContract), "", "address of the task registry contract")
	flags.String(FlagName(interactiveContract), "", "address of the interactive dispute contract")
	flags.String(FlagName(filesystemContract), "", "address of the filesystem contract")

	flags.Duration(FlagName(dispatcherTimeout), config.Dispatcher.Timeout, "upper bound of a single transaction submission")
	flags.Uint(FlagName(dispatcherRetries), config.Dispatcher.Retries, "number of additional attempts of a failed submission")
	flags.Duration(FlagName(dispatcherRetryDelay), config.Dispatcher.RetryDelay, "pause between submission attempts")
	flags.Bool(FlagName(dispatcherDryRun), config.Dispatcher.DryRun, "simulate every transaction before sending it")
	flags.Float64(FlagName(dispatcherRateLimit), config.Dispatcher.RateLimit, "maximum submissions per second, 0 is unlimited")
	flags.Int(FlagName(dispatcherRateBurst), config.Dispatcher.RateBurst, "number of submissions allowed to exceed the rate limit at once")
	flags.Uint32(FlagName(dispatcherBreakerFailures), config.Dispatcher.BreakerFailures, "consecutive failures opening the circuit breaker, 0 disables it")
	flags.Duration(FlagName(dispatcherBreakerTimeout), config.Dispatcher.BreakerTimeout, "time an open circuit breaker rejects submissions")

	flags.String(FlagName(executorInterpreter), config.Executor.Interpreter, "path of the interpreter binary")
	flags.StringSlice(FlagName(executorExtraArgs), config.Executor.ExtraArgs, "extra arguments passed to every interpreter invocation")
	flags.Duration(FlagName(executorTimeout), config.Executor.Timeout, "upper bound of a single interpreter invocation, 0 disables it")
	flags.Uint(FlagName(executorStepCacheSize), config.Executor.StepCacheSize, "number of step proofs kept in memory")
	flags.String(FlagName(executorOutputFile), config.Executor.OutputFile, "name of the file tasks write their output to")

	flags.Uint(FlagName(reactorWorkers), config.Reactor.Workers, "number of challenges handled concurrently")
	flags.Uint(FlagName(reactorFinishedChallenges), config.Reactor.FinishedChallenges, "number of finished challenges remembered to ignore replayed events")

	flags.String(FlagName(solverWorkDir), config.Solver.WorkDir, "directory holding the files of solved tasks")
	flags.String(FlagName(solverInputFile), config.Solver.InputFile, "name the task input is stored under")
	flags.String(FlagName(solverOutputName), config.Solver.OutputName, "name of the uploaded output file")
}
