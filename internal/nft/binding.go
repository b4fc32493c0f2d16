package nft

import (
	"context"
	"fmt"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

const (
	GasMintNft           uint64 = 120_000
	GasApprove           uint64 = 50_000
	GasSetApprovalForAll uint64 = 46_000
	GasTransferFrom      uint64 = 60_000
)

// Binding submits BasicNft calls to a chain.
type Binding struct {
	chain    *chain.Chain
	address  common.Address
	contract *BasicNft
}

func Deploy(ctx context.Context, c *chain.Chain, deployer common.Address) (*Binding, error) {
	address, err := c.Deploy(ctx, deployer, entity.BasicNftContract, func(address common.Address) chain.Contract {
		return NewBasicNft(address)
	})
	if err != nil {
		return nil, err
	}
	return NewBinding(ctx, c, address)
}

func NewBinding(ctx context.Context, c *chain.Chain, address common.Address) (*Binding, error) {
	contract, err := c.Contract(ctx, address)
	if err != nil {
		return nil, err
	}
	basicNft, ok := contract.(*BasicNft)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotBasicNft, address.Hex())
	}
	return &Binding{chain: c, address: address, contract: basicNft}, nil
}

func (b *Binding) Address() common.Address {
	return b.address
}

func (b *Binding) transact(ctx context.Context, opts chain.TxOpts, method string, gas uint64, fn func(env *chain.Env) error) (*chain.Receipt, error) {
	return b.chain.Execute(ctx, chain.Msg{
		From:   opts.From,
		To:     b.address,
		Value:  opts.Value,
		Gas:    gas,
		Method: method,
	}, fn)
}

func (b *Binding) MintNft(ctx context.Context, opts chain.TxOpts) (uint64, *chain.Receipt, error) {
	var tokenId uint64
	receipt, err := b.transact(ctx, opts, "mintNft", GasMintNft, func(env *chain.Env) error {
		var err error
		tokenId, err = b.contract.MintNft(env)
		return err
	})
	return tokenId, receipt, err
}

func (b *Binding) Approve(ctx context.Context, opts chain.TxOpts, to common.Address, tokenId uint64) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "approve", GasApprove, func(env *chain.Env) error {
		return b.contract.Approve(env, to, tokenId)
	})
}

func (b *Binding) SetApprovalForAll(ctx context.Context, opts chain.TxOpts, operator common.Address, approved bool) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "setApprovalForAll", GasSetApprovalForAll, func(env *chain.Env) error {
		return b.contract.SetApprovalForAll(env, operator, approved)
	})
}

func (b *Binding) TransferFrom(ctx context.Context, opts chain.TxOpts, from, to common.Address, tokenId uint64) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "transferFrom", GasTransferFrom, func(env *chain.Env) error {
		return b.contract.TransferFrom(env, from, to, tokenId)
	})
}

func (b *Binding) OwnerOf(ctx context.Context, tokenId uint64) (common.Address, error) {
	var owner common.Address
	err := b.chain.View(ctx, func(env *chain.Env) error {
		var err error
		owner, err = b.contract.OwnerOf(env, tokenId)
		return err
	})
	return owner, err
}

func (b *Binding) GetApproved(ctx context.Context, tokenId uint64) (common.Address, error) {
	var approved common.Address
	err := b.chain.View(ctx, func(env *chain.Env) error {
		var err error
		approved, err = b.contract.GetApproved(env, tokenId)
		return err
	})
	return approved, err
}

func (b *Binding) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	var approved bool
	err := b.chain.View(ctx, func(env *chain.Env) error {
		approved = b.contract.IsApprovedForAll(env, owner, operator)
		return nil
	})
	return approved, err
}

func (b *Binding) TokenURI(ctx context.Context, tokenId uint64) (string, error) {
	var uri string
	err := b.chain.View(ctx, func(env *chain.Env) error {
		var err error
		uri, err = b.contract.TokenURI(env, tokenId)
		return err
	})
	return uri, err
}

func (b *Binding) GetTokenCounter(ctx context.Context) (uint64, error) {
	var counter uint64
	err := b.chain.View(ctx, func(env *chain.Env) error {
		counter = b.contract.GetTokenCounter(env)
		return nil
	})
	return counter, err
}

func (b *Binding) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	var balance uint64
	err := b.chain.View(ctx, func(env *chain.Env) error {
		var err error
		balance, err = b.contract.BalanceOf(env, owner)
		return err
	})
	return balance, err
}

// Token reads the owner, approval and uri of a token in one view.
func (b *Binding) Token(ctx context.Context, tokenId uint64) (entity.Nft, error) {
	token := entity.Nft{Contract: b.address, TokenId: tokenId}
	err := b.chain.View(ctx, func(env *chain.Env) error {
		var err error
		if token.Owner, err = b.contract.OwnerOf(env, tokenId); err != nil {
			return err
		}
		if token.Approved, err = b.contract.GetApproved(env, tokenId); err != nil {
			return err
		}
		token.TokenUri, err = b.contract.TokenURI(env, tokenId)
		return err
	})
	return token, err
}
