package client

import (
	"context"

	"github.com/ZilDuck/nft-marketplace/internal/server"
	"github.com/ethereum/go-ethereum/common"
)

func (c *Client) MintNft(ctx context.Context, from common.Address) (*server.MintReply, error) {
	reply := &server.MintReply{}
	err := c.transact(ctx, "Nft.MintNft", server.FromArgs{From: from.Hex()}, reply)
	return reply, err
}

func (c *Client) Approve(ctx context.Context, from, to common.Address, tokenId uint64) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Nft.Approve", server.ApproveArgs{From: from.Hex(), To: to.Hex(), TokenId: tokenId}, reply)
	return reply, err
}

func (c *Client) SetApprovalForAll(ctx context.Context, from, operator common.Address, approved bool) (*server.TxReply, error) {
	reply := &server.TxReply{}
	err := c.transact(ctx, "Nft.SetApprovalForAll", server.SetApprovalForAllArgs{From: from.Hex(), Operator: operator.Hex(), Approved: approved}, reply)
	return reply, err
}

func (c *Client) OwnerOf(ctx context.Context, tokenId uint64) (common.Address, error) {
	reply := server.AddressReply{}
	err := c.view(ctx, "Nft.OwnerOf", server.TokenArgs{TokenId: tokenId}, &reply)
	return reply.Address, err
}

func (c *Client) GetApproved(ctx context.Context, tokenId uint64) (common.Address, error) {
	reply := server.AddressReply{}
	err := c.view(ctx, "Nft.GetApproved", server.TokenArgs{TokenId: tokenId}, &reply)
	return reply.Address, err
}

func (c *Client) TokenURI(ctx context.Context, tokenId uint64) (string, error) {
	reply := server.StringReply{}
	err := c.view(ctx, "Nft.TokenURI", server.TokenArgs{TokenId: tokenId}, &reply)
	return reply.Value, err
}

func (c *Client) GetTokenCounter(ctx context.Context) (uint64, error) {
	reply := server.NumberReply{}
	err := c.view(ctx, "Nft.GetTokenCounter", server.EmptyArgs{}, &reply)
	return reply.Value, err
}

func (c *Client) GetToken(ctx context.Context, tokenId uint64) (*server.TokenReply, error) {
	reply := &server.TokenReply{}
	err := c.view(ctx, "Nft.GetToken", server.TokenArgs{TokenId: tokenId}, reply)
	return reply, err
}
