package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenId uint64 = 0

var (
	price    = uint256.NewInt(100_000_000_000_000_000) // 0.1 ether
	gasPrice = uint256.NewInt(7)
)

type fixture struct {
	chain       *chain.Chain
	marketplace *Binding
	nft         *nft.Binding
	deployer    common.Address
	player      common.Address
	accounts    []common.Address
}

func newFixture(t *testing.T) fixture {
	ctx := context.Background()
	c := chain.New(chain.Config{ChainID: 31337, GasPrice: gasPrice}, nil)
	t.Cleanup(c.Close)

	funds, err := uint256.FromDecimal("10000000000000000000000")
	require.NoError(t, err)

	accounts := chain.DevAccounts(20)
	for _, a := range accounts {
		require.NoError(t, c.Fund(ctx, a, funds))
	}

	mp, err := Deploy(ctx, c, accounts[0])
	require.NoError(t, err)
	basicNft, err := nft.Deploy(ctx, c, accounts[0])
	require.NoError(t, err)

	f := fixture{chain: c, marketplace: mp, nft: basicNft, deployer: accounts[0], player: accounts[1], accounts: accounts}

	minted, _, err := basicNft.MintNft(ctx, f.as(f.deployer))
	require.NoError(t, err)
	require.Equal(t, tokenId, minted)
	_, err = basicNft.Approve(ctx, f.as(f.deployer), mp.Address(), tokenId)
	require.NoError(t, err)

	return f
}

func (f fixture) as(from common.Address) chain.TxOpts {
	return chain.TxOpts{From: from}
}

func (f fixture) paying(from common.Address, value *uint256.Int) chain.TxOpts {
	return chain.TxOpts{From: from, Value: value}
}

func (f fixture) balance(t *testing.T, address common.Address) *uint256.Int {
	balance, err := f.chain.Balance(context.Background(), address)
	require.NoError(t, err)
	return balance
}

func (f fixture) listing(t *testing.T, id uint64) entity.Listing {
	listing, err := f.marketplace.GetListing(context.Background(), f.nft.Address(), id)
	require.NoError(t, err)
	return listing
}

func (f fixture) proceeds(t *testing.T, seller common.Address) *uint256.Int {
	proceeds, err := f.marketplace.GetProceeds(context.Background(), seller)
	require.NoError(t, err)
	return proceeds
}

func (f fixture) list(t *testing.T) {
	_, err := f.marketplace.ListItem(context.Background(), f.as(f.deployer), f.nft.Address(), tokenId, price)
	require.NoError(t, err)
}

func singleEvent(t *testing.T, receipt *chain.Receipt, name string) entity.Event {
	logs := receipt.LogsByName(name)
	require.Len(t, logs, 1)
	return logs[0].Event
}

func TestListItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	receipt, err := f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), tokenId, price)
	require.NoError(t, err)

	assert.Equal(t, entity.ItemListed{Seller: f.deployer, NftAddress: f.nft.Address(), TokenId: tokenId, Price: price}, singleEvent(t, receipt, "ItemListed"))
	assert.Equal(t, f.marketplace.Address(), receipt.Logs[0].Address)

	listing := f.listing(t, tokenId)
	assert.True(t, listing.Exists())
	assert.Equal(t, price, listing.Price)
	assert.Equal(t, f.deployer, listing.Seller)
}

func TestListItemRejectsAlreadyListed(t *testing.T) {
	f := newFixture(t)
	f.list(t)

	_, err := f.marketplace.ListItem(context.Background(), f.as(f.deployer), f.nft.Address(), tokenId, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrAlreadyListed)
	assert.ErrorIs(t, err, chain.ErrReverted)

	assert.Equal(t, price, f.listing(t, tokenId).Price, "existing listing is untouched")
}

func TestListItemOnlyOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.marketplace.ListItem(context.Background(), f.as(f.player), f.nft.Address(), tokenId, price)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, f.listing(t, tokenId).Exists())
}

func TestListItemNeedsApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.nft.Approve(ctx, f.as(f.deployer), common.Address{}, tokenId)
	require.NoError(t, err)

	_, err = f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), tokenId, price)
	assert.ErrorIs(t, err, ErrNotApprovedForMarketplace)

	_, err = f.nft.SetApprovalForAll(ctx, f.as(f.deployer), f.marketplace.Address(), true)
	require.NoError(t, err)

	_, err = f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), tokenId, price)
	assert.NoError(t, err, "an operator approval is enough")
}

func TestListItemPriceMustBeAboveZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), tokenId, new(uint256.Int))
	assert.ErrorIs(t, err, ErrPriceMustBeAboveZero)

	_, err = f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), tokenId, nil)
	assert.ErrorIs(t, err, ErrPriceMustBeAboveZero)
}

func TestListItemRejectsValueAndUnknownNft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.marketplace.ListItem(ctx, f.paying(f.deployer, uint256.NewInt(1)), f.nft.Address(), tokenId, price)
	assert.ErrorIs(t, err, ErrNonPayable)

	_, err = f.marketplace.ListItem(ctx, f.as(f.deployer), f.player, tokenId, price)
	assert.ErrorIs(t, err, ErrUnsupportedNft)

	_, err = f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), 99, price)
	assert.ErrorIs(t, err, nft.ErrNonexistentToken)
}

func TestCancelListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.marketplace.CancelListing(ctx, f.as(f.deployer), f.nft.Address(), tokenId)
	assert.ErrorIs(t, err, ErrNotListed)

	f.list(t)

	_, err = f.marketplace.CancelListing(ctx, f.as(f.player), f.nft.Address(), tokenId)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.True(t, f.listing(t, tokenId).Exists())

	receipt, err := f.marketplace.CancelListing(ctx, f.as(f.deployer), f.nft.Address(), tokenId)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemCanceled{Seller: f.deployer, NftAddress: f.nft.Address(), TokenId: tokenId}, singleEvent(t, receipt, "ItemCanceled"))

	listing := f.listing(t, tokenId)
	assert.False(t, listing.Exists())
	assert.True(t, listing.Price.IsZero())
	assert.Equal(t, common.Address{}, listing.Seller)
}

func TestBuyItemNotListed(t *testing.T) {
	f := newFixture(t)

	_, err := f.marketplace.BuyItem(context.Background(), f.paying(f.player, price), f.nft.Address(), tokenId)
	assert.ErrorIs(t, err, ErrNotListed)
}

func TestBuyItemPriceNotMet(t *testing.T) {
	f := newFixture(t)
	f.list(t)
	before := f.balance(t, f.player)

	receipt, err := f.marketplace.BuyItem(context.Background(), f.paying(f.player, uint256.NewInt(1)), f.nft.Address(), tokenId)
	assert.ErrorIs(t, err, ErrPriceNotMet)
	require.NotNil(t, receipt)

	assert.Equal(t, price, f.listing(t, tokenId).Price)
	assert.True(t, f.proceeds(t, f.deployer).IsZero())
	assert.Equal(t, new(uint256.Int).Sub(before, receipt.GasCost), f.balance(t, f.player), "only gas is spent")
}

func TestBuyItem(t *testing.T) {
	f := newFixture(t)
	f.list(t)
	ctx := context.Background()

	receipt, err := f.marketplace.BuyItem(ctx, f.paying(f.player, price), f.nft.Address(), tokenId)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemBought{Buyer: f.player, NftAddress: f.nft.Address(), TokenId: tokenId, Price: price}, singleEvent(t, receipt, "ItemBought"))
	assert.Len(t, receipt.LogsByName("Transfer"), 1)

	owner, err := f.nft.OwnerOf(ctx, tokenId)
	require.NoError(t, err)
	assert.Equal(t, f.player, owner)
	assert.Equal(t, price, f.proceeds(t, f.deployer))
	assert.False(t, f.listing(t, tokenId).Exists())
	assert.Equal(t, price, f.balance(t, f.marketplace.Address()))
}

func TestBuyItemOverpaymentIsCredited(t *testing.T) {
	f := newFixture(t)
	f.list(t)

	payment := new(uint256.Int).Mul(price, uint256.NewInt(2))
	_, err := f.marketplace.BuyItem(context.Background(), f.paying(f.player, payment), f.nft.Address(), tokenId)
	require.NoError(t, err)

	assert.Equal(t, payment, f.proceeds(t, f.deployer))
}

func TestBuyItemIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.list(t)
	ctx := context.Background()

	// the seller revokes the approval after listing, so the token transfer fails
	_, err := f.nft.Approve(ctx, f.as(f.deployer), common.Address{}, tokenId)
	require.NoError(t, err)
	before := f.balance(t, f.player)

	receipt, err := f.marketplace.BuyItem(ctx, f.paying(f.player, price), f.nft.Address(), tokenId)
	assert.ErrorIs(t, err, nft.ErrNotOwnerNorApproved)

	assert.Equal(t, price, f.listing(t, tokenId).Price)
	assert.True(t, f.proceeds(t, f.deployer).IsZero())
	assert.Equal(t, new(uint256.Int).Sub(before, receipt.GasCost), f.balance(t, f.player))
	assert.True(t, f.balance(t, f.marketplace.Address()).IsZero())

	owner, err := f.nft.OwnerOf(ctx, tokenId)
	require.NoError(t, err)
	assert.Equal(t, f.deployer, owner)
}

func TestUpdateListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newPrice := uint256.NewInt(200_000_000_000_000_000)

	_, err := f.marketplace.UpdateListing(ctx, f.as(f.deployer), f.nft.Address(), tokenId, newPrice)
	assert.ErrorIs(t, err, ErrNotListed)

	f.list(t)

	_, err = f.marketplace.UpdateListing(ctx, f.as(f.player), f.nft.Address(), tokenId, newPrice)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.marketplace.UpdateListing(ctx, f.as(f.deployer), f.nft.Address(), tokenId, new(uint256.Int))
	assert.ErrorIs(t, err, ErrPriceMustBeAboveZero)
	assert.Equal(t, price, f.listing(t, tokenId).Price)

	receipt, err := f.marketplace.UpdateListing(ctx, f.as(f.deployer), f.nft.Address(), tokenId, newPrice)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemListed{Seller: f.deployer, NftAddress: f.nft.Address(), TokenId: tokenId, Price: newPrice}, singleEvent(t, receipt, "ItemListed"))

	listing := f.listing(t, tokenId)
	assert.Equal(t, newPrice, listing.Price)
	assert.Equal(t, f.deployer, listing.Seller)
}

func TestWithdrawProceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.marketplace.WithdrawProceeds(ctx, f.as(f.deployer))
	assert.ErrorIs(t, err, ErrNoProceeds)

	f.list(t)
	_, err = f.marketplace.BuyItem(ctx, f.paying(f.player, price), f.nft.Address(), tokenId)
	require.NoError(t, err)

	proceedsBefore := f.proceeds(t, f.deployer)
	balanceBefore := f.balance(t, f.deployer)

	receipt, err := f.marketplace.WithdrawProceeds(ctx, f.as(f.deployer))
	require.NoError(t, err)

	balanceAfter := f.balance(t, f.deployer)
	assert.Equal(t,
		new(uint256.Int).Add(balanceBefore, proceedsBefore),
		new(uint256.Int).Add(balanceAfter, receipt.GasCost),
	)
	assert.True(t, f.proceeds(t, f.deployer).IsZero())
	assert.True(t, f.balance(t, f.marketplace.Address()).IsZero())

	_, err = f.marketplace.WithdrawProceeds(ctx, f.as(f.deployer))
	assert.ErrorIs(t, err, ErrNoProceeds)
}

func TestWithdrawProceedsReentrancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	attacker := f.accounts[2]

	_, err := f.nft.TransferFrom(ctx, f.as(f.deployer), f.deployer, attacker, tokenId)
	require.NoError(t, err)
	_, err = f.nft.Approve(ctx, f.as(attacker), f.marketplace.Address(), tokenId)
	require.NoError(t, err)
	_, err = f.marketplace.ListItem(ctx, f.as(attacker), f.nft.Address(), tokenId, price)
	require.NoError(t, err)
	_, err = f.marketplace.BuyItem(ctx, f.paying(f.player, price), f.nft.Address(), tokenId)
	require.NoError(t, err)

	var reentryErr error
	require.NoError(t, f.chain.SetReceiveHook(ctx, attacker, func(env *chain.Env, _ *uint256.Int) error {
		callEnv, err := env.Call(f.marketplace.Address())
		if err != nil {
			return err
		}
		reentryErr = f.marketplace.Contract().WithdrawProceeds(callEnv)
		return nil
	}))

	before := f.balance(t, attacker)
	receipt, err := f.marketplace.WithdrawProceeds(ctx, f.as(attacker))
	require.NoError(t, err)

	assert.ErrorIs(t, reentryErr, ErrReentrantCall)
	assert.Equal(t, new(uint256.Int).Add(before, price), new(uint256.Int).Add(f.balance(t, attacker), receipt.GasCost))
	assert.True(t, f.balance(t, f.marketplace.Address()).IsZero())
	assert.True(t, f.proceeds(t, attacker).IsZero())
}

func TestWithdrawProceedsFailedTransferKeepsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.list(t)
	_, err := f.marketplace.BuyItem(ctx, f.paying(f.player, price), f.nft.Address(), tokenId)
	require.NoError(t, err)

	rejected := errors.New("receiver rejects payments")
	require.NoError(t, f.chain.SetReceiveHook(ctx, f.deployer, func(*chain.Env, *uint256.Int) error {
		return rejected
	}))

	_, err = f.marketplace.WithdrawProceeds(ctx, f.as(f.deployer))
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, price, f.proceeds(t, f.deployer))
	assert.Equal(t, price, f.balance(t, f.marketplace.Address()))
}

func TestListingsAreKeyedPerToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prices := map[uint64]*uint256.Int{tokenId: price}
	for i := 1; i <= 5; i++ {
		id, _, err := f.nft.MintNft(ctx, f.as(f.deployer))
		require.NoError(t, err)
		_, err = f.nft.Approve(ctx, f.as(f.deployer), f.marketplace.Address(), id)
		require.NoError(t, err)
		prices[id] = uint256.NewInt(uint64(i) * 1_000)
	}

	for id, p := range prices {
		_, err := f.marketplace.ListItem(ctx, f.as(f.deployer), f.nft.Address(), id, p)
		require.NoError(t, err)
	}
	for id, p := range prices {
		listing := f.listing(t, id)
		assert.Equal(t, p, listing.Price)
		assert.Equal(t, f.deployer, listing.Seller)
	}
}

func TestConcurrentBuyersOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.list(t)
	ctx := context.Background()

	buyers := f.accounts[1:]
	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, buyer common.Address) {
			defer wg.Done()
			_, errs[i] = f.marketplace.BuyItem(ctx, f.paying(buyer, price), f.nft.Address(), tokenId)
		}(i, buyer)
	}
	wg.Wait()

	winners := 0
	var winner common.Address
	for i, err := range errs {
		if err == nil {
			winners++
			winner = buyers[i]
			continue
		}
		assert.ErrorIs(t, err, ErrNotListed)
	}
	require.Equal(t, 1, winners)

	owner, err := f.nft.OwnerOf(ctx, tokenId)
	require.NoError(t, err)
	assert.Equal(t, winner, owner)
	assert.Equal(t, price, f.proceeds(t, f.deployer))
	assert.Equal(t, price, f.balance(t, f.marketplace.Address()))
}

func TestRevertReason(t *testing.T) {
	f := newFixture(t)

	_, err := f.marketplace.CancelListing(context.Background(), f.as(f.deployer), f.nft.Address(), tokenId)
	require.Error(t, err)
	assert.Equal(t, "NftMarketplace__NotListed", RevertReason(err))
	assert.Equal(t, "", RevertReason(errors.New("other")))

	resolved, ok := ErrorByReason("NftMarketplace__PriceNotMet")
	require.True(t, ok)
	assert.Equal(t, ErrPriceNotMet, resolved)

	_, ok = ErrorByReason("unknown")
	assert.False(t, ok)
}
