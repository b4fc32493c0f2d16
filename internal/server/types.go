package server

import (
	"encoding/json"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/indexer"
	"github.com/ethereum/go-ethereum/common"
)

// Addresses are accepted as 0x hex or zil1 bech32, amounts as decimal wei.

type EmptyArgs struct{}

type FromArgs struct {
	From string `json:"from"`
}

type AddressArgs struct {
	Address string `json:"address"`
}

type TokenArgs struct {
	TokenId uint64 `json:"tokenId"`
}

type ListingArgs struct {
	From       string `json:"from"`
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
}

type ListItemArgs struct {
	From       string `json:"from"`
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
	Price      string `json:"price"`
}

type UpdateListingArgs struct {
	From       string `json:"from"`
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
	NewPrice   string `json:"newPrice"`
}

type BuyItemArgs struct {
	From       string `json:"from"`
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
	Value      string `json:"value"`
}

type ApproveArgs struct {
	From    string `json:"from"`
	To      string `json:"to"`
	TokenId uint64 `json:"tokenId"`
}

type SetApprovalForAllArgs struct {
	From     string `json:"from"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type DeploymentArgs struct {
	Name string `json:"name"`
}

type LogReply struct {
	Address  common.Address  `json:"address"`
	Topic    common.Hash     `json:"topic"`
	Event    string          `json:"event"`
	Args     json.RawMessage `json:"args"`
	BlockNum uint64          `json:"blockNumber"`
	LogIndex uint            `json:"logIndex"`
}

type TxReply struct {
	TxHash   common.Hash    `json:"transactionHash"`
	BlockNum uint64         `json:"blockNumber"`
	From     common.Address `json:"from"`
	To       common.Address `json:"to"`
	Status   string         `json:"status"`
	GasUsed  uint64         `json:"gasUsed"`
	GasCost  string         `json:"gasCost"`
	Logs     []LogReply     `json:"logs"`
}

func (r *TxReply) fill(receipt *chain.Receipt) error {
	r.TxHash = receipt.TxHash
	r.BlockNum = receipt.BlockNum
	r.From = receipt.From
	r.To = receipt.To
	r.Status = receipt.Status.String()
	r.GasUsed = receipt.GasUsed
	r.GasCost = receipt.GasCost.Dec()
	r.Logs = make([]LogReply, 0, len(receipt.Logs))
	for _, l := range receipt.Logs {
		args, err := json.Marshal(l.Event)
		if err != nil {
			return err
		}
		r.Logs = append(r.Logs, LogReply{
			Address:  l.Address,
			Topic:    l.Topic,
			Event:    l.Name,
			Args:     args,
			BlockNum: l.BlockNum,
			LogIndex: l.Index,
		})
	}
	return nil
}

type TokenReply struct {
	Slug string `json:"slug"`
	entity.Nft
}

type DeploymentsReply struct {
	ChainID   uint64                    `json:"chainId"`
	Contracts map[string]common.Address `json:"contracts"`
}

type MintReply struct {
	TokenId uint64  `json:"tokenId"`
	Tx      TxReply `json:"tx"`
}

type ListingReply struct {
	NftAddress common.Address `json:"nftAddress"`
	TokenId    uint64         `json:"tokenId"`
	Price      string         `json:"price"`
	Seller     common.Address `json:"seller"`
	BlockNum   uint64         `json:"blockNum,omitempty"`
	TxHash     *common.Hash   `json:"txHash,omitempty"`
}

func newListingReply(l entity.Listing) ListingReply {
	return ListingReply{NftAddress: l.NftAddress, TokenId: l.TokenId, Price: l.PriceOrZero().Dec(), Seller: l.Seller}
}

func newActiveListingReply(l indexer.ActiveListing) ListingReply {
	reply := newListingReply(l.Listing)
	reply.BlockNum = l.BlockNum
	txHash := l.TxHash
	reply.TxHash = &txHash
	return reply
}

type ListingsReply struct {
	Listings []ListingReply `json:"listings"`
}

type ActionsReply struct {
	Actions []entity.NftAction `json:"actions"`
}

type AmountReply struct {
	Amount string `json:"amount"`
}

type AddressReply struct {
	Address common.Address `json:"address"`
}

type AccountsReply struct {
	Accounts []common.Address `json:"accounts"`
}

type StringReply struct {
	Value string `json:"value"`
}

type BoolReply struct {
	Value bool `json:"value"`
}

type NumberReply struct {
	Value uint64 `json:"value"`
}

type HealthReply struct {
	Status      string `json:"status"`
	ChainID     uint64 `json:"chainId"`
	BlockNumber uint64 `json:"blockNumber"`
}
