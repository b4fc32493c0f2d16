package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"github.com/holiman/uint256"
)

type ListingKey struct {
	NftAddress common.Address
	TokenId    uint64
}

func (k ListingKey) String() string {
	return fmt.Sprintf("%s/%d", k.NftAddress.Hex(), k.TokenId)
}

// Listing is the zero value when the token is not listed.
type Listing struct {
	NftAddress common.Address `json:"nftAddress"`
	TokenId    uint64         `json:"tokenId"`
	Price      *uint256.Int   `json:"price"`
	Seller     common.Address `json:"seller"`
}

func (l Listing) Exists() bool {
	return l.Price != nil && !l.Price.IsZero()
}

func (l Listing) Key() ListingKey {
	return ListingKey{NftAddress: l.NftAddress, TokenId: l.TokenId}
}

func (l Listing) PriceOrZero() *uint256.Int {
	if l.Price == nil {
		return new(uint256.Int)
	}
	return l.Price.Clone()
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.TokenId, l.NftAddress)
}

func CreateListingSlug(tokenId uint64, nftAddress common.Address) string {
	return slug.Make(fmt.Sprintf("listing-%d-%s", tokenId, nftAddress.Hex()))
}
