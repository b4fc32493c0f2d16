package entity

import (
	"crypto/md5"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type NftAction struct {
	Contract common.Address `json:"contract"`
	TokenId  uint64         `json:"tokenId"`
	TxID     common.Hash    `json:"txId"`
	BlockNum uint64         `json:"blockNum"`
	LogIndex uint           `json:"logIndex"`
	Action   ActionType     `json:"action"`
	From     common.Address `json:"from"`
	To       common.Address `json:"to"`
	Cost     string         `json:"cost"`
}

type ActionType string

const (
	MarketplaceSaleAction      ActionType = "sale"
	MarketplaceListingAction   ActionType = "listing"
	MarketplaceDelistingAction ActionType = "delisting"
)

func (n NftAction) Slug() string {
	return CreateNftActionSlug(n.TokenId, n.Contract, n.TxID, n.LogIndex, string(n.Action))
}

func CreateNftActionSlug(tokenId uint64, contract common.Address, txId common.Hash, logIndex uint, action string) string {
	data := []byte(fmt.Sprintf("nftaction-%d-%s-%s-%d-%s", tokenId, contract.Hex(), txId.Hex(), logIndex, action))
	return fmt.Sprintf("%x", md5.Sum(data))
}
