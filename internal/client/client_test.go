package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/deploy"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/event"
	"github.com/ZilDuck/nft-marketplace/internal/indexer"
	"github.com/ZilDuck/nft-marketplace/internal/marketplace"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
	"github.com/ZilDuck/nft-marketplace/internal/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	client     *Client
	deployment *deploy.Deployment
	accounts   []common.Address
}

func newNode(t *testing.T) node {
	ctx := context.Background()
	manager := event.NewManager(16)
	t.Cleanup(manager.Close)
	c := chain.New(chain.Config{ChainID: 31337}, manager)
	t.Cleanup(c.Close)

	accounts := chain.DevAccounts(2)
	for _, a := range accounts {
		require.NoError(t, c.Fund(ctx, a, uint256.NewInt(1_000_000)))
	}
	d, err := deploy.Run(ctx, c, accounts[0])
	require.NoError(t, err)

	idx := indexer.NewMarketplaceIndexer(d.Marketplace.Address())
	idx.Listen(manager)

	router, err := server.NewServer(c, d, idx, accounts).Router()
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/rpc", 5*time.Second, false)
	require.NoError(t, err)

	return node{client: client, deployment: d, accounts: accounts}
}

func TestNewClientRequiresUrl(t *testing.T) {
	_, err := NewClient("", time.Second, false)
	assert.ErrorIs(t, err, ErrMissingUrl)
}

func TestMarketplaceRoundTrip(t *testing.T) {
	n := newNode(t)
	ctx := context.Background()
	seller, buyer := n.accounts[0], n.accounts[1]
	nftAddress := n.deployment.Nft.Address()
	price := uint256.NewInt(500)

	minted, err := n.client.MintNft(ctx, seller)
	require.NoError(t, err)
	_, err = n.client.Approve(ctx, seller, n.deployment.Marketplace.Address(), minted.TokenId)
	require.NoError(t, err)
	_, err = n.client.ListItem(ctx, seller, nftAddress, minted.TokenId, price)
	require.NoError(t, err)

	listing, err := n.client.GetListing(ctx, nftAddress, minted.TokenId)
	require.NoError(t, err)
	assert.Equal(t, price, listing.Price)
	assert.Equal(t, seller, listing.Seller)

	_, err = n.client.UpdateListing(ctx, seller, nftAddress, minted.TokenId, uint256.NewInt(600))
	require.NoError(t, err)

	_, err = n.client.BuyItem(ctx, buyer, nftAddress, minted.TokenId, price)
	assert.ErrorIs(t, err, marketplace.ErrPriceNotMet)
	assert.ErrorIs(t, err, chain.ErrReverted)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "NftMarketplace__PriceNotMet", rpcErr.Reason)
	assert.NotEmpty(t, rpcErr.ID)

	_, err = n.client.BuyItem(ctx, buyer, nftAddress, minted.TokenId, uint256.NewInt(600))
	require.NoError(t, err)

	owner, err := n.client.OwnerOf(ctx, minted.TokenId)
	require.NoError(t, err)
	assert.Equal(t, buyer, owner)

	proceeds, err := n.client.GetProceeds(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(600), proceeds)

	before, err := n.client.Balance(ctx, seller)
	require.NoError(t, err)
	_, err = n.client.WithdrawProceeds(ctx, seller)
	require.NoError(t, err)
	after, err := n.client.Balance(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Add(before, proceeds), after, "gas is free on this node")

	_, err = n.client.WithdrawProceeds(ctx, seller)
	assert.ErrorIs(t, err, marketplace.ErrNoProceeds)
}

func TestNftErrorsResolve(t *testing.T) {
	n := newNode(t)

	_, err := n.client.OwnerOf(context.Background(), 42)
	assert.ErrorIs(t, err, nft.ErrNonexistentToken)

	_, err = n.client.Approve(context.Background(), n.accounts[1], n.accounts[1], 42)
	assert.ErrorIs(t, err, nft.ErrNonexistentToken)
	assert.ErrorIs(t, err, chain.ErrReverted)
}

func TestNodeCalls(t *testing.T) {
	n := newNode(t)
	ctx := context.Background()

	chainId, err := n.client.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), chainId)

	accounts, err := n.client.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, n.accounts, accounts)

	address, err := n.client.Deployment(ctx, entity.BasicNftContract)
	require.NoError(t, err)
	assert.Equal(t, n.deployment.Nft.Address(), address)

	counter, err := n.client.GetTokenCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), counter)

	deployments, err := n.client.Deployments(ctx)
	require.NoError(t, err)
	assert.Equal(t, n.deployment.Addresses(), deployments.Contracts)
}

func TestGetToken(t *testing.T) {
	n := newNode(t)
	ctx := context.Background()

	minted, err := n.client.MintNft(ctx, n.accounts[1])
	require.NoError(t, err)

	token, err := n.client.GetToken(ctx, minted.TokenId)
	require.NoError(t, err)
	assert.Equal(t, n.accounts[1], token.Owner)
	assert.Equal(t, n.deployment.Nft.Address(), token.Contract)
	assert.Equal(t, entity.CreateNftSlug(minted.TokenId, n.deployment.Nft.Address()), token.Slug)

	_, err = n.client.GetToken(ctx, 7)
	assert.ErrorIs(t, err, nft.ErrNonexistentToken)
}

func flakyServer(t *testing.T, hits *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fastClient(t *testing.T, url string) *Client {
	client, err := NewClient(url, 5*time.Second, false)
	require.NoError(t, err)
	client.rpc.httpClient.RetryWaitMin = time.Millisecond
	client.rpc.httpClient.RetryWaitMax = time.Millisecond
	return client
}

func TestViewsAreRetried(t *testing.T) {
	var hits int32
	client := fastClient(t, flakyServer(t, &hits).URL)

	_, err := client.ChainID(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
}

func TestTransactionsAreNotRetried(t *testing.T) {
	var hits int32
	client := fastClient(t, flakyServer(t, &hits).URL)

	_, err := client.WithdrawProceeds(context.Background(), common.HexToAddress("0x1"))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
