package client

import (
	"context"

	"github.com/ZilDuck/nft-marketplace/internal/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	reply := server.NumberReply{}
	err := c.view(ctx, "Node.ChainID", server.EmptyArgs{}, &reply)
	return reply.Value, err
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	reply := server.NumberReply{}
	err := c.view(ctx, "Node.BlockNumber", server.EmptyArgs{}, &reply)
	return reply.Value, err
}

func (c *Client) Balance(ctx context.Context, address common.Address) (*uint256.Int, error) {
	reply := server.AmountReply{}
	if err := c.view(ctx, "Node.Balance", server.AddressArgs{Address: address.Hex()}, &reply); err != nil {
		return nil, err
	}
	return uint256.FromDecimal(reply.Amount)
}

func (c *Client) Deployment(ctx context.Context, name string) (common.Address, error) {
	reply := server.AddressReply{}
	err := c.view(ctx, "Node.Deployment", server.DeploymentArgs{Name: name}, &reply)
	return reply.Address, err
}

func (c *Client) Deployments(ctx context.Context) (*server.DeploymentsReply, error) {
	reply := &server.DeploymentsReply{}
	err := c.view(ctx, "Node.Deployments", server.EmptyArgs{}, reply)
	return reply, err
}

func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	reply := server.AccountsReply{}
	err := c.view(ctx, "Node.Accounts", server.EmptyArgs{}, &reply)
	return reply.Accounts, err
}
