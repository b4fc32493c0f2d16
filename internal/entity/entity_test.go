package entity

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), addr)

	addr, err = ParseAddress("5fbdb2315678afecb367f032d93f642f64180aa3")
	require.NoError(t, err)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", addr.Hex())

	_, err = ParseAddress("not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAddress("zil1invalid")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestListingExists(t *testing.T) {
	assert.False(t, Listing{}.Exists())
	assert.False(t, Listing{Price: new(uint256.Int)}.Exists())
	assert.True(t, Listing{Price: uint256.NewInt(1)}.Exists())
	assert.True(t, Listing{}.PriceOrZero().IsZero())
}

func TestListingSlug(t *testing.T) {
	nft := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	l := Listing{NftAddress: nft, TokenId: 7}

	assert.Equal(t, "listing-7-0x5fbdb2315678afecb367f032d93f642f64180aa3", l.Slug())
	assert.Equal(t, ListingKey{NftAddress: nft, TokenId: 7}, l.Key())
}

func TestEventTopics(t *testing.T) {
	// keccak256("Transfer(address,address,uint256)")
	assert.Equal(t,
		common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		Topic(Transfer{}),
	)
	assert.NotEqual(t, Topic(ItemListed{}), Topic(ItemBought{}))
}

func TestNftActionSlugIsUniquePerLog(t *testing.T) {
	a := NftAction{TokenId: 1, Action: MarketplaceListingAction, LogIndex: 0}
	b := a
	b.LogIndex = 1

	assert.NotEqual(t, a.Slug(), b.Slug())
	assert.Len(t, a.Slug(), 32)
}
