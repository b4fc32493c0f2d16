package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
)

type Nft struct {
	Contract common.Address `json:"contract"`
	TokenId  uint64         `json:"tokenId"`
	TokenUri string         `json:"tokenUri"`
	Owner    common.Address `json:"owner"`
	Approved common.Address `json:"approved"`
}

func (n Nft) Slug() string {
	return CreateNftSlug(n.TokenId, n.Contract)
}

func CreateNftSlug(tokenId uint64, contract common.Address) string {
	return slug.Make(fmt.Sprintf("nft-%d-%s", tokenId, contract.Hex()))
}
