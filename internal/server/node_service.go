package server

import (
	"net/http"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/deploy"
	"github.com/ethereum/go-ethereum/common"
)

type NodeService struct {
	chain      *chain.Chain
	deployment *deploy.Deployment
	accounts   []common.Address
}

func (s *NodeService) ChainID(_ *http.Request, _ *EmptyArgs, reply *NumberReply) error {
	reply.Value = s.chain.ChainID()
	return nil
}

func (s *NodeService) BlockNumber(r *http.Request, _ *EmptyArgs, reply *NumberReply) error {
	blockNum, err := s.chain.BlockNumber(r.Context())
	if err != nil {
		return rpcError("Node.BlockNumber", err, nil)
	}
	reply.Value = blockNum
	return nil
}

func (s *NodeService) Balance(r *http.Request, args *AddressArgs, reply *AmountReply) error {
	extra := map[string]interface{}{"address": args.Address}

	address, err := parseAddress("address", args.Address)
	if err != nil {
		return rpcError("Node.Balance", err, extra)
	}

	balance, err := s.chain.Balance(r.Context(), address)
	if err != nil {
		return rpcError("Node.Balance", err, extra)
	}
	reply.Amount = balance.Dec()
	return nil
}

func (s *NodeService) Deployment(r *http.Request, args *DeploymentArgs, reply *AddressReply) error {
	address, err := s.chain.Deployment(r.Context(), args.Name)
	if err != nil {
		return rpcError("Node.Deployment", err, map[string]interface{}{"name": args.Name})
	}
	reply.Address = address
	return nil
}

// Deployments lists the contracts deployed when the node started.
func (s *NodeService) Deployments(_ *http.Request, _ *EmptyArgs, reply *DeploymentsReply) error {
	reply.ChainID = s.deployment.ChainID
	reply.Contracts = s.deployment.Addresses()
	return nil
}

func (s *NodeService) Accounts(_ *http.Request, _ *EmptyArgs, reply *AccountsReply) error {
	reply.Accounts = append([]common.Address{}, s.accounts...)
	return nil
}
