package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/config"
	"github.com/onflow/dispute-client/engine/dispute/reactor"
	"github.com/onflow/dispute-client/engine/dispute/solver"
	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/component"
	"github.com/onflow/dispute-client/module/contracts"
	"github.com/onflow/dispute-client/module/dispatcher"
	"github.com/onflow/dispute-client/module/executor"
	"github.com/onflow/dispute-client/module/filestore"
	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/module/mempool/challenges"
	"github.com/onflow/dispute-client/module/mempool/sessions"
	"github.com/onflow/dispute-client/module/metrics"
	"github.com/onflow/dispute-client/module/util"
	"github.com/onflow/dispute-client/utils/logging"
)

const shutdownTimeout = 30 * time.Second

// node wires the components of a running challenger.
type node struct {
	log        zerolog.Logger
	client     *ethclient.Client
	db         io.Closer
	solver     *solver.Solver
	components []component.Component
}

func newNode(ctx context.Context, log zerolog.Logger, cfg *config.Config) (n *node, err error) {
	client, err := ethclient.DialContext(ctx, cfg.RPC)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", cfg.RPC, err)
	}
	defer func() {
		if err != nil {
			client.Close()
		}
	}()

	chainID := new(big.Int).SetUint64(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not query chain id: %w", err)
		}
	}
	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("could not create transactor: %w", err)
	}
	log = log.With().Str("account", auth.From.Hex()).Logger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewDisputeCollector(registry)

	disp := dispatcher.New(log, cfg.Dispatcher, auth, collector)
	interactiveContract := contracts.BindInteractive(cfg.Contracts.Interactive, client)
	tasks := contracts.NewTasks(log, contracts.BindTasks(cfg.Contracts.Tasks, client), disp)
	interactive := contracts.NewInteractive(log, interactiveContract, disp)
	filesystem := contracts.NewFilesystem(log, contracts.BindFilesystem(cfg.Contracts.Filesystem, client), disp)
	files := filestore.New(log, filesystem, client, auth.From)

	interpreter, err := executor.NewInterpreter(log, cfg.Executor, &executor.CommandRunner{Path: cfg.Executor.Interpreter}, collector)
	if err != nil {
		return nil, fmt.Errorf("could not create interpreter: %w", err)
	}

	store, progress, db, err := initStorage(cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("could not open storage: %w", err)
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()

	pending, err := challenges.NewRegistry(log, collector,
		challenges.WithPersistence(store),
		challenges.WithFinishedCapacity(cfg.Reactor.FinishedChallenges),
	)
	if err != nil {
		return nil, fmt.Errorf("could not restore challenges: %w", err)
	}
	active := pending.Active()
	ids := make([]dispute.ChallengeID, 0, len(active))
	for _, c := range active {
		ids = append(ids, c.ID)
	}
	log.Info().Strs("challenges", logging.ChallengeIDs(ids)).Msg("restored challenges")

	mempool := sessions.NewSessions()

	source, err := contracts.NewEventSource(log, interactiveContract, progress, cfg.StartBlock, collector)
	if err != nil {
		return nil, err
	}
	engine, err := reactor.New(log, cfg.Reactor, source.Events(), pending, mempool, tasks, interactive, interpreter, progress, collector)
	if err != nil {
		return nil, err
	}

	n = &node{
		log:        log,
		client:     client,
		db:         db,
		solver:     solver.New(log, cfg.Solver, tasks, files, interpreter, mempool, collector),
		components: []component.Component{source, engine},
	}
	if cfg.MetricsAddr != "" {
		n.components = append(n.components, metrics.NewServer(log, cfg.MetricsAddr, registry))
	}
	return n, nil
}

// run starts all components and blocks until the context is cancelled or a
// component fails. The assignment, if any, is handled once all components
// are ready.
func (n *node) run(ctx context.Context, assignment *dispute.Assignment, resume bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	aware := make([]module.ReadyDoneAware, 0, len(n.components))
	for _, c := range n.components {
		c.Start(signalerCtx)
		aware = append(aware, c)
	}

	var result *multierror.Error
	select {
	case <-util.AllReady(aware...):
		n.log.Info().Msg("challenger node ready")
		if assignment != nil {
			go n.solve(ctx, assignment, resume)
		}
		err := util.WaitError(errChan, ctx.Done())
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("unhandled irrecoverable error: %w", err))
		}
	case err := <-errChan:
		result = multierror.Append(result, fmt.Errorf("startup failed: %w", err))
	case <-ctx.Done():
	}

	cancel()
	stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := util.WaitClosed(stopCtx, util.AllDone(aware...)); err != nil {
		result = multierror.Append(result, fmt.Errorf("components did not stop in time: %w", err))
	} else {
		n.log.Info().Msg("challenger node stopped")
	}

	if err := n.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("could not close storage: %w", err))
	}
	n.client.Close()
	return result.ErrorOrNil()
}

// solve handles the assignment. A failure is logged and the node keeps
// answering challenges of other sessions.
func (n *node) solve(ctx context.Context, assignment *dispute.Assignment, resume bool) {
	handle := n.solver.Run
	if resume {
		handle = n.solver.Resume
	}
	outcome, err := handle(ctx, assignment)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		n.log.Error().Err(err).Uint64("task_id", uint64(assignment.TaskID)).Msg("could not handle assignment")
		return
	}
	n.log.Info().
		Uint64("task_id", uint64(assignment.TaskID)).
		Bool("degraded", outcome.Degraded).
		Bool("finalized", outcome.Finalized).
		Msg("assignment handled")
}
