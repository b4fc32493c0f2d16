package client

import (
	"context"
	"time"

	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Client calls the Marketplace, Nft and Node services of a marketplace node.
// Reads are retried on transport failures, transactions never are.
type Client struct {
	rpc *rpcClient
}

func NewClient(url string, timeout time.Duration, debug bool) (*Client, error) {
	rpc, err := newRpcClient(url, timeout, debug)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: rpc}, nil
}

func (c *Client) view(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return c.rpc.call(ctx, method, args, reply)
}

func (c *Client) transact(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return c.rpc.call(withoutRetry(ctx), method, args, reply)
}

func (c *Client) ListItem(ctx context.Context, from, nftAddress common.Address, tokenId uint64, price *uint256.Int) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Marketplace.ListItem", server.ListItemArgs{
		From:       from.Hex(),
		NftAddress: nftAddress.Hex(),
		TokenId:    tokenId,
		Price:      price.Dec(),
	}, reply)
	return reply, err
}

func (c *Client) CancelListing(ctx context.Context, from, nftAddress common.Address, tokenId uint64) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Marketplace.CancelListing", server.ListingArgs{
		From:       from.Hex(),
		NftAddress: nftAddress.Hex(),
		TokenId:    tokenId,
	}, reply)
	return reply, err
}

func (c *Client) UpdateListing(ctx context.Context, from, nftAddress common.Address, tokenId uint64, newPrice *uint256.Int) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Marketplace.UpdateListing", server.UpdateListingArgs{
		From:       from.Hex(),
		NftAddress: nftAddress.Hex(),
		TokenId:    tokenId,
		NewPrice:   newPrice.Dec(),
	}, reply)
	return reply, err
}

func (c *Client) BuyItem(ctx context.Context, from, nftAddress common.Address, tokenId uint64, value *uint256.Int) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Marketplace.BuyItem", server.BuyItemArgs{
		From:       from.Hex(),
		NftAddress: nftAddress.Hex(),
		TokenId:    tokenId,
		Value:      value.Dec(),
	}, reply)
	return reply, err
}

func (c *Client) WithdrawProceeds(ctx context.Context, from common.Address) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Marketplace.WithdrawProceeds", server.FromArgs{From: from.Hex()}, reply)
	return reply, err
}

func (c *Client) GetListing(ctx context.Context, nftAddress common.Address, tokenId uint64) (entity.Listing, error) {
	reply := server.ListingReply{}
	if err := c.view(ctx, "Marketplace.GetListing", server.ListingArgs{NftAddress: nftAddress.Hex(), TokenId: tokenId}, &reply); err != nil {
		return entity.Listing{}, err
	}
	return listingFromReply(reply)
}

func (c *Client) GetProceeds(ctx context.Context, seller common.Address) (*uint256.Int, error) {
	reply := server.AmountReply{}
	if err := c.view(ctx, "Marketplace.GetProceeds", server.AddressArgs{Address: seller.Hex()}, &reply); err != nil {
		return nil, err
	}
	return uint256.FromDecimal(reply.Amount)
}

func (c *Client) GetActiveListings(ctx context.Context) ([]server.ListingReply, error) {
	reply := server.ListingsReply{}
	if err := c.view(ctx, "Marketplace.GetActiveListings", server.EmptyArgs{}, &reply); err != nil {
		return nil, err
	}
	return reply.Listings, nil
}

func (c *Client) GetActions(ctx context.Context, nftAddress common.Address, tokenId uint64) ([]entity.NftAction, error) {
	reply := server.ActionsReply{}
	if err := c.view(ctx, "Marketplace.GetActions", server.ListingArgs{NftAddress: nftAddress.Hex(), TokenId: tokenId}, &reply); err != nil {
		return nil, err
	}
	return reply.Actions, nil
}

func listingFromReply(reply server.ListingReply) (entity.Listing, error) {
	price, err := uint256.FromDecimal(reply.Price)
	if err != nil {
		return entity.Listing{}, err
	}
	return entity.Listing{NftAddress: reply.NftAddress, TokenId: reply.TokenId, Price: price, Seller: reply.Seller}, nil
}
