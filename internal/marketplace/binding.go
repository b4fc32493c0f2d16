package marketplace

import (
	"context"
	"fmt"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	GasListItem         uint64 = 90_000
	GasCancelListing    uint64 = 35_000
	GasUpdateListing    uint64 = 40_000
	GasBuyItem          uint64 = 110_000
	GasWithdrawProceeds uint64 = 35_000
)

// Binding submits NftMarketplace calls to a chain.
type Binding struct {
	chain    *chain.Chain
	address  common.Address
	contract *NftMarketplace
}

func Deploy(ctx context.Context, c *chain.Chain, deployer common.Address) (*Binding, error) {
	address, err := c.Deploy(ctx, deployer, entity.NftMarketplaceContract, func(address common.Address) chain.Contract {
		return NewNftMarketplace(address)
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
	marketplace, ok := contract.(*NftMarketplace)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotNftMarketplace, address.Hex())
	}
	return &Binding{chain: c, address: address, contract: marketplace}, nil
}

func (b *Binding) Address() common.Address {
	return b.address
}

// Contract exposes the deployed contract for calls made from other contracts.
func (b *Binding) Contract() *NftMarketplace {
	return b.contract
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

func (b *Binding) ListItem(ctx context.Context, opts chain.TxOpts, nftAddress common.Address, tokenId uint64, price *uint256.Int) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "listItem", GasListItem, func(env *chain.Env) error {
		return b.contract.ListItem(env, nftAddress, tokenId, price)
	})
}

func (b *Binding) CancelListing(ctx context.Context, opts chain.TxOpts, nftAddress common.Address, tokenId uint64) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "cancelListing", GasCancelListing, func(env *chain.Env) error {
		return b.contract.CancelListing(env, nftAddress, tokenId)
	})
}

func (b *Binding) UpdateListing(ctx context.Context, opts chain.TxOpts, nftAddress common.Address, tokenId uint64, newPrice *uint256.Int) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "updateListing", GasUpdateListing, func(env *chain.Env) error {
		return b.contract.UpdateListing(env, nftAddress, tokenId, newPrice)
	})
}

// BuyItem pays opts.Value for the listed token.
func (b *Binding) BuyItem(ctx context.Context, opts chain.TxOpts, nftAddress common.Address, tokenId uint64) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "buyItem", GasBuyItem, func(env *chain.Env) error {
		return b.contract.BuyItem(env, nftAddress, tokenId)
	})
}

func (b *Binding) WithdrawProceeds(ctx context.Context, opts chain.TxOpts) (*chain.Receipt, error) {
	return b.transact(ctx, opts, "withdrawProceeds", GasWithdrawProceeds, b.contract.WithdrawProceeds)
}

func (b *Binding) GetListing(ctx context.Context, nftAddress common.Address, tokenId uint64) (entity.Listing, error) {
	var listing entity.Listing
	err := b.chain.View(ctx, func(env *chain.Env) error {
		listing = b.contract.GetListing(env, nftAddress, tokenId)
		return nil
	})
	return listing, err
}

func (b *Binding) GetProceeds(ctx context.Context, seller common.Address) (*uint256.Int, error) {
	var proceeds *uint256.Int
	err := b.chain.View(ctx, func(env *chain.Env) error {
		proceeds = b.contract.GetProceeds(env, seller)
		return nil
	})
	return proceeds, err
}
