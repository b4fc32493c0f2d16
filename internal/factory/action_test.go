package factory

import (
	"testing"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

var (
	seller     = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	buyer      = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	nftAddress = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

func testLog(name string) chain.Log {
	return chain.Log{Name: name, BlockNum: 12, TxHash: common.HexToHash("0xabc"), Index: 3}
}

func TestCreateListingAction(t *testing.T) {
	ev := entity.ItemListed{Seller: seller, NftAddress: nftAddress, TokenId: 4, Price: uint256.NewInt(250)}

	action := CreateListingAction(testLog(ev.Name()), ev)

	assert.Equal(t, entity.MarketplaceListingAction, action.Action)
	assert.Equal(t, nftAddress, action.Contract)
	assert.Equal(t, uint64(4), action.TokenId)
	assert.Equal(t, seller, action.From)
	assert.Equal(t, common.Address{}, action.To)
	assert.Equal(t, "250", action.Cost)
	assert.Equal(t, uint64(12), action.BlockNum)
	assert.Equal(t, uint(3), action.LogIndex)
	assert.Equal(t, common.HexToHash("0xabc"), action.TxID)
}

func TestCreateDelistingAction(t *testing.T) {
	ev := entity.ItemCanceled{Seller: seller, NftAddress: nftAddress, TokenId: 4}

	action := CreateDelistingAction(testLog(ev.Name()), ev)

	assert.Equal(t, entity.MarketplaceDelistingAction, action.Action)
	assert.Equal(t, seller, action.From)
	assert.Empty(t, action.Cost)
}

func TestCreateSaleAction(t *testing.T) {
	ev := entity.ItemBought{Buyer: buyer, NftAddress: nftAddress, TokenId: 4, Price: uint256.NewInt(250)}

	action := CreateSaleAction(testLog(ev.Name()), ev, seller)

	assert.Equal(t, entity.MarketplaceSaleAction, action.Action)
	assert.Equal(t, seller, action.From)
	assert.Equal(t, buyer, action.To)
	assert.Equal(t, "250", action.Cost)
}

func TestActionSlugsDifferPerLog(t *testing.T) {
	ev := entity.ItemListed{Seller: seller, NftAddress: nftAddress, TokenId: 4, Price: uint256.NewInt(250)}
	first := testLog(ev.Name())
	second := first
	second.Index++

	assert.NotEqual(t, CreateListingAction(first, ev).Slug(), CreateListingAction(second, ev).Slug())
}
