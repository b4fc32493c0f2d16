package factory

import (
	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

func CreateListingAction(l chain.Log, ev entity.ItemListed) entity.NftAction {
	return entity.NftAction{
		Contract: ev.NftAddress,
		TokenId:  ev.TokenId,
		TxID:     l.TxHash,
		BlockNum: l.BlockNum,
		LogIndex: l.Index,
		Action:   entity.MarketplaceListingAction,
		From:     ev.Seller,
		Cost:     ev.Price.Dec(),
	}
}

func CreateDelistingAction(l chain.Log, ev entity.ItemCanceled) entity.NftAction {
	return entity.NftAction{
		Contract: ev.NftAddress,
		TokenId:  ev.TokenId,
		TxID:     l.TxHash,
		BlockNum: l.BlockNum,
		LogIndex: l.Index,
		Action:   entity.MarketplaceDelistingAction,
		From:     ev.Seller,
	}
}

// CreateSaleAction records a trade. ItemBought does not carry the seller, so
// it is passed in from the listing that was bought.
func CreateSaleAction(l chain.Log, ev entity.ItemBought, seller common.Address) entity.NftAction {
	return entity.NftAction{
		Contract: ev.NftAddress,
		TokenId:  ev.TokenId,
		TxID:     l.TxHash,
		BlockNum: l.BlockNum,
		LogIndex: l.Index,
		Action:   entity.MarketplaceSaleAction,
		From:     seller,
		To:       ev.Buyer,
		Cost:     ev.Price.Dec(),
	}
}
