package mocks

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

// Invocation is a recorded call or transaction.
type Invocation struct {
	Method   string
	Params   []interface{}
	Transact bool
}

// Contract is a simulated contract that records every invocation and answers
// calls with the outputs configured per method.
type Contract struct {
	sync.Mutex
	outputs     map[string][]interface{}
	errs        map[string]error
	invocations []Invocation
}

func NewContract() *Contract {
	return &Contract{
		outputs: make(map[string][]interface{}),
		errs:    make(map[string]error),
	}
}

// Returns sets the decoded outputs of calls to method.
func (c *Contract) Returns(method string, outputs ...interface{}) {
	c.Lock()
	defer c.Unlock()
	c.outputs[method] = outputs
}

// Fails makes calls and transactions invoking method fail with err.
func (c *Contract) Fails(method string, err error) {
	c.Lock()
	defer c.Unlock()
	c.errs[method] = err
}

func (c *Contract) Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error {
	c.Lock()
	defer c.Unlock()
	c.invocations = append(c.invocations, Invocation{Method: method, Params: params})
	if err, ok := c.errs[method]; ok {
		return err
	}
	out, ok := c.outputs[method]
	if !ok {
		out = []interface{}{}
	}
	*results = append([]interface{}(nil), out...)
	return nil
}

func (c *Contract) Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error) {
	c.Lock()
	defer c.Unlock()
	c.invocations = append(c.invocations, Invocation{Method: method, Params: params, Transact: true})
	if err, ok := c.errs[method]; ok {
		return nil, fmt.Errorf("could not send %s: %w", method, err)
	}
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(c.invocations))}), nil
}

// Transactions returns the transactions sent, in order.
func (c *Contract) Transactions() []Invocation {
	c.Lock()
	defer c.Unlock()
	var sent []Invocation
	for _, inv := range c.invocations {
		if inv.Transact {
			sent = append(sent, inv)
		}
	}
	return sent
}

// Calls returns the invocations of method, calls and transactions alike.
func (c *Contract) Calls(method string) []Invocation {
	c.Lock()
	defer c.Unlock()
	var calls []Invocation
	for _, inv := range c.invocations {
		if inv.Method == method {
			calls = append(calls, inv)
		}
	}
	return calls
}
