package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/onflow/dispute-client/module"
)

// ErrReverted is returned when the dry run of a transaction reports that it
// would be rejected by the contract. Reverted transactions are never sent.
var ErrReverted = errors.New("transaction would revert")

// Contract is a deployed contract that can be called and transacted with.
// It is satisfied by *bind.BoundContract.
type Contract interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// Dispatcher submits contract transactions on behalf of a single account.
// A submission returns as soon as the transaction was handed to the node;
// inclusion is not awaited.
type Dispatcher struct {
	log     zerolog.Logger
	config  Config
	auth    bind.TransactOpts
	metrics module.TransactionMetrics
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// New creates a dispatcher signing with auth. The context of auth is ignored,
// each submission carries its own.
func New(log zerolog.Logger, config Config, auth *bind.TransactOpts, metrics module.TransactionMetrics) *Dispatcher {
	d := &Dispatcher{
		log:     log.With().Str("module", "dispatcher").Str("from", auth.From.Hex()).Logger(),
		config:  config,
		auth:    *auth,
		metrics: metrics,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	if config.RateLimit > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}

	failures := config.BreakerFailures
	if failures == 0 {
		failures = math.MaxUint32
	}
	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "dispatcher",
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// a revert is an answer of the contract, not a failure of the node
			return err == nil || errors.Is(err, ErrReverted)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			d.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker changed state")
		},
	})
	return d
}

// Address returns the account transactions are sent from.
func (d *Dispatcher) Address() common.Address {
	return d.auth.From
}

// Call performs a read-only contract call and returns the decoded outputs.
func (d *Dispatcher) Call(ctx context.Context, contract Contract, method string, params ...interface{}) ([]interface{}, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var out []interface{}
	err := contract.Call(&bind.CallOpts{From: d.auth.From, Context: ctx}, &out, method, params...)
	if err != nil {
		return nil, fmt.Errorf("could not call %s: %w", method, err)
	}
	return out, nil
}

// Submit sends a transaction invoking method. With dry runs enabled, the
// transaction is simulated first and ErrReverted is returned without sending
// if the simulation fails. Failed sends are retried up to the configured
// number of times.
func (d *Dispatcher) Submit(ctx context.Context, contract Contract, method string, params ...interface{}) (*types.Transaction, error) {
	log := d.log.With().Str("method", method).Logger()
	start := time.Now()

	err := d.limiter.Wait(ctx)
	if err != nil {
		d.metrics.TransactionFailed(method)
		return nil, fmt.Errorf("could not wait for rate limiter: %w", err)
	}

	backoff := retry.WithMaxRetries(uint64(d.config.Retries), d.retryDelay())

	var (
		tx      *types.Transaction
		attempt uint
	)
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 {
			d.metrics.TransactionRetried(method)
			log.Info().Uint("attempt", attempt).Msg("retrying transaction")
		}
		attempt++

		res, err := d.breaker.Execute(func() (interface{}, error) {
			return d.attempt(ctx, contract, method, params...)
		})
		if err == nil {
			tx = res.(*types.Transaction)
			return nil
		}
		if errors.Is(err, ErrReverted) || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return err
		}
		log.Warn().Err(err).Msg("transaction attempt failed")
		return retry.RetryableError(err)
	})
	if err != nil {
		if errors.Is(err, ErrReverted) {
			d.metrics.DryRunReverted(method)
		}
		d.metrics.TransactionFailed(method)
		return nil, fmt.Errorf("could not submit %s: %w", method, err)
	}

	d.metrics.TransactionSubmitted(method, time.Since(start))
	log.Debug().Str("tx", tx.Hash().Hex()).Uint("attempts", attempt).Msg("transaction sent")
	return tx, nil
}

// attempt performs one bounded dry run and send.
func (d *Dispatcher) attempt(ctx context.Context, contract Contract, method string, params ...interface{}) (*types.Transaction, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if d.config.DryRun {
		var out []interface{}
		err := contract.Call(&bind.CallOpts{From: d.auth.From, Context: ctx}, &out, method, params...)
		if err != nil {
			if isRejection(err) {
				return nil, fmt.Errorf("%w: %v", ErrReverted, err)
			}
			return nil, fmt.Errorf("could not dry run transaction: %w", err)
		}
	}

	opts := d.auth
	opts.Context = ctx
	tx, err := contract.Transact(&opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("could not send transaction: %w", err)
	}
	return tx, nil
}

// isRejection returns true if the node executed the call and answered with an
// error, as opposed to the call not reaching the node.
func isRejection(err error) bool {
	if errors.Is(err, bind.ErrNoCode) {
		return true
	}
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}

// retryDelay returns the constant pause between attempts. A config that was
// not validated may carry no delay, attempts are then repeated immediately.
func (d *Dispatcher) retryDelay() retry.Backoff {
	if d.config.RetryDelay <= 0 {
		return retry.BackoffFunc(func() (time.Duration, bool) {
			return 0, false
		})
	}
	return retry.NewConstant(d.config.RetryDelay)
}

func (d *Dispatcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.config.Timeout)
}
