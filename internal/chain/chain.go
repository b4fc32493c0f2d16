package chain

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ZilDuck/nft-marketplace/internal/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

const GasTransfer uint64 = 21000

// Contract is code deployed at an address. Contracts keep their own storage and
// must only touch it from within an Env handed out by the chain.
type Contract interface {
	ContractName() string
}

type Emitter interface {
	EmitEvent(eventType event.Type, msg interface{})
}

// ReceiveHook runs when an address receives native currency from a contract or
// a plain transfer. Returning an error fails the transfer.
type ReceiveHook func(env *Env, amount *uint256.Int) error

type Config struct {
	ChainID  uint64
	GasPrice *uint256.Int
}

// Msg is a transaction submitted to the chain.
type Msg struct {
	From   common.Address
	To     common.Address
	Value  *uint256.Int
	Gas    uint64
	Method string
}

// Chain is a single writer ledger. Every request runs on the loop goroutine,
// one at a time, in submission order.
type Chain struct {
	chainID  uint64
	gasPrice *uint256.Int
	emitter  Emitter

	requests  chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	blockNum    uint64
	balances    map[common.Address]*uint256.Int
	nonces      map[common.Address]uint64
	contracts   map[common.Address]Contract
	deployments map[string]common.Address
	hooks       map[common.Address]ReceiveHook
}

func New(cfg Config, emitter Emitter) *Chain {
	gasPrice := new(uint256.Int)
	if cfg.GasPrice != nil {
		gasPrice.Set(cfg.GasPrice)
	}

	c := &Chain{
		chainID:     cfg.ChainID,
		gasPrice:    gasPrice,
		emitter:     emitter,
		requests:    make(chan func()),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		balances:    make(map[common.Address]*uint256.Int),
		nonces:      make(map[common.Address]uint64),
		contracts:   make(map[common.Address]Contract),
		deployments: make(map[string]common.Address),
		hooks:       make(map[common.Address]ReceiveHook),
	}
	go c.loop()

	zap.L().With(zap.Uint64("chainId", cfg.ChainID), zap.String("gasPrice", gasPrice.Dec())).Info("Chain: Started")

	return c
}

func (c *Chain) loop() {
	defer close(c.done)
	for {
		select {
		case fn := <-c.requests:
			fn()
		case <-c.quit:
			return
		}
	}
}

// Close stops the loop. Requests submitted afterwards fail with ErrChainClosed.
func (c *Chain) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
		<-c.done
		zap.L().Info("Chain: Stopped")
	})
}

// do runs fn on the loop goroutine. A request whose context is done before the
// loop picks it up is never executed.
func (c *Chain) do(ctx context.Context, fn func()) error {
	executed := false
	finished := make(chan struct{})
	req := func() {
		defer close(finished)
		if ctx.Err() != nil {
			return
		}
		executed = true
		fn()
	}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.quit:
		return ErrChainClosed
	}

	<-finished
	if !executed {
		return ctx.Err()
	}
	return nil
}

func (c *Chain) ChainID() uint64 {
	return c.chainID
}

func (c *Chain) GasPrice() *uint256.Int {
	return c.gasPrice.Clone()
}

// Execute runs a transaction. The sender pays Gas*GasPrice up front; when fn
// fails every state change of the call is rolled back and the error is
// returned wrapped in ErrReverted alongside a reverted receipt.
func (c *Chain) Execute(ctx context.Context, msg Msg, fn func(env *Env) error) (*Receipt, error) {
	var receipt *Receipt
	var execErr error
	if err := c.do(ctx, func() {
		receipt, execErr = c.execute(msg, fn)
	}); err != nil {
		return nil, err
	}
	return receipt, execErr
}

func (c *Chain) execute(msg Msg, fn func(env *Env) error) (*Receipt, error) {
	value := new(uint256.Int)
	if msg.Value != nil {
		value.Set(msg.Value)
	}

	gasCost, overflow := new(uint256.Int).MulOverflow(c.gasPrice, uint256.NewInt(msg.Gas))
	if overflow {
		return nil, ErrGasOverflow
	}
	total, overflow := new(uint256.Int).AddOverflow(gasCost, value)
	if overflow || c.balance(msg.From).Lt(total) {
		return nil, fmt.Errorf("%w: address %s have %s want %s", ErrInsufficientFunds, msg.From.Hex(), c.balance(msg.From).Dec(), total.Dec())
	}

	nonce := c.nonces[msg.From]
	c.nonces[msg.From] = nonce + 1
	c.blockNum++
	c.balances[msg.From] = new(uint256.Int).Sub(c.balance(msg.From), gasCost)

	receipt := &Receipt{
		TxHash:   c.txHash(msg.From, nonce),
		BlockNum: c.blockNum,
		From:     msg.From,
		To:       msg.To,
		Method:   msg.Method,
		GasUsed:  msg.Gas,
		GasCost:  gasCost,
		Logs:     make([]Log, 0),
	}

	logs := make([]Log, 0)
	env := &Env{
		chain:    c,
		caller:   msg.From,
		self:     msg.To,
		value:    value,
		journal:  newJournal(),
		logs:     &logs,
		txHash:   receipt.TxHash,
		blockNum: receipt.BlockNum,
	}

	err := env.move(msg.From, msg.To, value)
	if err == nil && fn != nil {
		err = fn(env)
	}

	if err != nil {
		env.journal.revert()
		receipt.Status = StatusReverted
		zap.L().With(
			zap.String("txHash", receipt.TxHash.Hex()),
			zap.String("method", msg.Method),
			zap.String("from", msg.From.Hex()),
			zap.Error(err),
		).Debug("Chain: Transaction reverted")

		return receipt, fmt.Errorf("%w: %s: %w", ErrReverted, msg.Method, err)
	}

	receipt.Status = StatusSuccessful
	receipt.Logs = logs

	zap.L().With(
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("blockNum", receipt.BlockNum),
		zap.String("method", msg.Method),
		zap.String("from", msg.From.Hex()),
		zap.Int("logs", len(logs)),
	).Debug("Chain: Transaction executed")

	c.publish(logs)

	return receipt, nil
}

func (c *Chain) publish(logs []Log) {
	if c.emitter == nil {
		return
	}
	for _, l := range logs {
		c.emitter.EmitEvent(event.Type(l.Name), l)
	}
}

func (c *Chain) txHash(from common.Address, nonce uint64) common.Hash {
	buf := make([]byte, 0, 16)
	buf = binary.BigEndian.AppendUint64(buf, c.chainID)
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return crypto.Keccak256Hash(from.Bytes(), buf)
}

// View runs fn against a read only Env.
func (c *Chain) View(ctx context.Context, fn func(env *Env) error) error {
	var viewErr error
	if err := c.do(ctx, func() {
		logs := make([]Log, 0)
		env := &Env{
			chain:    c,
			value:    new(uint256.Int),
			journal:  newJournal(),
			logs:     &logs,
			blockNum: c.blockNum,
			readOnly: true,
		}
		viewErr = fn(env)
	}); err != nil {
		return err
	}
	return viewErr
}

// Send transfers native currency between accounts, running the receiver's hook.
func (c *Chain) Send(ctx context.Context, from, to common.Address, amount *uint256.Int) (*Receipt, error) {
	return c.Execute(ctx, Msg{From: from, To: to, Value: amount, Gas: GasTransfer, Method: "transfer"}, func(env *Env) error {
		return env.receive(from, to, env.value)
	})
}

// Deploy places the contract built by build at the address derived from the
// deployer and its nonce, and records it under name.
func (c *Chain) Deploy(ctx context.Context, deployer common.Address, name string, build func(address common.Address) Contract) (common.Address, error) {
	var address common.Address
	if err := c.do(ctx, func() {
		nonce := c.nonces[deployer]
		c.nonces[deployer] = nonce + 1
		c.blockNum++

		address = crypto.CreateAddress(deployer, nonce)
		c.contracts[address] = build(address)
		c.deployments[name] = address
	}); err != nil {
		return common.Address{}, err
	}

	zap.L().With(zap.String("name", name), zap.String("address", address.Hex()), zap.String("deployer", deployer.Hex())).Info("Chain: Contract deployed")

	return address, nil
}

func (c *Chain) Deployment(ctx context.Context, name string) (common.Address, error) {
	var address common.Address
	var found bool
	if err := c.do(ctx, func() {
		address, found = c.deployments[name]
	}); err != nil {
		return common.Address{}, err
	}
	if !found {
		return common.Address{}, fmt.Errorf("%w: %s", ErrDeploymentNotFound, name)
	}
	return address, nil
}

func (c *Chain) Contract(ctx context.Context, address common.Address) (Contract, error) {
	var contract Contract
	var found bool
	if err := c.do(ctx, func() {
		contract, found = c.contracts[address]
	}); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, address.Hex())
	}
	return contract, nil
}

// Fund credits an account outside of any transaction, like a genesis allocation.
func (c *Chain) Fund(ctx context.Context, address common.Address, amount *uint256.Int) error {
	return c.do(ctx, func() {
		c.balances[address] = new(uint256.Int).Add(c.balance(address), amount)
	})
}

func (c *Chain) Balance(ctx context.Context, address common.Address) (*uint256.Int, error) {
	var balance *uint256.Int
	if err := c.do(ctx, func() {
		balance = c.balance(address).Clone()
	}); err != nil {
		return nil, err
	}
	return balance, nil
}

func (c *Chain) Nonce(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64
	err := c.do(ctx, func() {
		nonce = c.nonces[address]
	})
	return nonce, err
}

func (c *Chain) BlockNumber(ctx context.Context) (uint64, error) {
	var blockNum uint64
	err := c.do(ctx, func() {
		blockNum = c.blockNum
	})
	return blockNum, err
}

// SetReceiveHook installs or, with a nil hook, removes the hook of an address.
func (c *Chain) SetReceiveHook(ctx context.Context, address common.Address, hook ReceiveHook) error {
	return c.do(ctx, func() {
		if hook == nil {
			delete(c.hooks, address)
			return
		}
		c.hooks[address] = hook
	})
}

func (c *Chain) balance(address common.Address) *uint256.Int {
	if balance, ok := c.balances[address]; ok {
		return balance
	}
	return new(uint256.Int)
}

// TxOpts are the sender side parameters of a contract transaction.
type TxOpts struct {
	From  common.Address
	Value *uint256.Int
}
