package entity

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Event is a contract log payload.
type Event interface {
	Name() string
	Signature() string
}

func Topic(e Event) common.Hash {
	return crypto.Keccak256Hash([]byte(e.Signature()))
}

type ItemListed struct {
	Seller     common.Address `json:"seller"`
	NftAddress common.Address `json:"nftAddress"`
	TokenId    uint64         `json:"tokenId"`
	Price      *uint256.Int   `json:"price"`
}

func (ItemListed) Name() string      { return "ItemListed" }
func (ItemListed) Signature() string { return "ItemListed(address,address,uint256,uint256)" }

type ItemCanceled struct {
	Seller     common.Address `json:"seller"`
	NftAddress common.Address `json:"nftAddress"`
	TokenId    uint64         `json:"tokenId"`
}

func (ItemCanceled) Name() string      { return "ItemCanceled" }
func (ItemCanceled) Signature() string { return "ItemCanceled(address,address,uint256)" }

type ItemBought struct {
	Buyer      common.Address `json:"buyer"`
	NftAddress common.Address `json:"nftAddress"`
	TokenId    uint64         `json:"tokenId"`
	Price      *uint256.Int   `json:"price"`
}

func (ItemBought) Name() string      { return "ItemBought" }
func (ItemBought) Signature() string { return "ItemBought(address,address,uint256,uint256)" }

type Transfer struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	TokenId uint64         `json:"tokenId"`
}

func (Transfer) Name() string      { return "Transfer" }
func (Transfer) Signature() string { return "Transfer(address,address,uint256)" }

type Approval struct {
	Owner    common.Address `json:"owner"`
	Approved common.Address `json:"approved"`
	TokenId  uint64         `json:"tokenId"`
}

func (Approval) Name() string      { return "Approval" }
func (Approval) Signature() string { return "Approval(address,address,uint256)" }

type ApprovalForAll struct {
	Owner    common.Address `json:"owner"`
	Operator common.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

func (ApprovalForAll) Name() string      { return "ApprovalForAll" }
func (ApprovalForAll) Signature() string { return "ApprovalForAll(address,address,bool)" }
