package chain

import (
	"fmt"

	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const maxCallDepth = 64

// Env is the execution context of one call frame. It is only valid inside the
// function it was handed to.
type Env struct {
	chain    *Chain
	caller   common.Address
	self     common.Address
	value    *uint256.Int
	journal  *journal
	logs     *[]Log
	txHash   common.Hash
	blockNum uint64
	depth    int
	readOnly bool
}

func (e *Env) Caller() common.Address {
	return e.caller
}

func (e *Env) Self() common.Address {
	return e.self
}

func (e *Env) Value() *uint256.Int {
	return e.value.Clone()
}

func (e *Env) BlockNum() uint64 {
	return e.blockNum
}

func (e *Env) TxHash() common.Hash {
	return e.txHash
}

func (e *Env) ReadOnly() bool {
	return e.readOnly
}

func (e *Env) Balance(address common.Address) *uint256.Int {
	return e.chain.balance(address).Clone()
}

func (e *Env) Contract(address common.Address) (Contract, bool) {
	contract, ok := e.chain.contracts[address]
	return contract, ok
}

// Call opens a nested frame in which the current contract is the caller of to.
func (e *Env) Call(to common.Address) (*Env, error) {
	return e.frame(e.self, to, new(uint256.Int))
}

func (e *Env) frame(caller, self common.Address, value *uint256.Int) (*Env, error) {
	if e.depth+1 > maxCallDepth {
		return nil, ErrCallDepth
	}
	return &Env{
		chain:    e.chain,
		caller:   caller,
		self:     self,
		value:    value,
		journal:  e.journal,
		logs:     e.logs,
		txHash:   e.txHash,
		blockNum: e.blockNum,
		depth:    e.depth + 1,
		readOnly: e.readOnly,
	}, nil
}

// Record registers the undo operation of a storage write that is about to
// happen. It fails in a read only frame, before anything is written.
func (e *Env) Record(undo func()) error {
	if e.readOnly {
		return ErrWriteProtection
	}
	e.journal.append(undo)
	return nil
}

func (e *Env) Emit(ev entity.Event) error {
	if e.readOnly {
		return ErrWriteProtection
	}

	logs := e.logs
	prev := len(*logs)
	e.journal.append(func() {
		*logs = (*logs)[:prev]
	})

	*logs = append(*logs, Log{
		Address:  e.self,
		Topic:    entity.Topic(ev),
		Name:     ev.Name(),
		Event:    ev,
		BlockNum: e.blockNum,
		TxHash:   e.txHash,
		Index:    uint(prev),
	})
	return nil
}

// Transfer sends native currency from the current contract. When the receiver
// hook fails, the transfer and everything the hook did are undone and
// ErrTransferFailed is returned.
func (e *Env) Transfer(to common.Address, amount *uint256.Int) error {
	if e.readOnly {
		return ErrWriteProtection
	}

	snapshot := e.journal.snapshot()
	if err := e.move(e.self, to, amount); err != nil {
		return err
	}
	if err := e.receive(e.self, to, amount); err != nil {
		e.journal.revertTo(snapshot)
		return err
	}
	return nil
}

func (e *Env) receive(payer, to common.Address, amount *uint256.Int) error {
	hook, ok := e.chain.hooks[to]
	if !ok {
		return nil
	}

	frame, err := e.frame(payer, to, amount.Clone())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := hook(frame, amount.Clone()); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return nil
}

func (e *Env) move(from, to common.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}

	c := e.chain
	fromBalance := c.balance(from)
	if fromBalance.Lt(amount) {
		return fmt.Errorf("%w: address %s have %s want %s", ErrInsufficientFunds, from.Hex(), fromBalance.Dec(), amount.Dec())
	}

	prevFrom, prevTo := fromBalance.Clone(), c.balance(to).Clone()
	e.journal.append(func() {
		c.balances[from] = prevFrom
		c.balances[to] = prevTo
	})

	c.balances[from] = new(uint256.Int).Sub(fromBalance, amount)
	c.balances[to] = new(uint256.Int).Add(c.balance(to), amount)
	return nil
}

// Atomic runs fn as a single call: when fn fails, every write it made is undone
// before the error is returned.
func (e *Env) Atomic(fn func() error) error {
	snapshot := e.journal.snapshot()
	if err := fn(); err != nil {
		e.journal.revertTo(snapshot)
		return err
	}
	return nil
}
