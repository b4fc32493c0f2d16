package indexer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/event"
	"github.com/ZilDuck/nft-marketplace/internal/factory"
	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var ErrUnexpectedEvent = errors.New("unexpected event")

type MarketplaceIndexer interface {
	Listen(manager *event.Manager)
	IndexLog(l chain.Log) error
	GetActiveListings() []ActiveListing
	GetActions(nftAddress common.Address, tokenId uint64) []entity.NftAction
}

type ActiveListing struct {
	entity.Listing
	BlockNum uint64      `json:"blockNum"`
	TxHash   common.Hash `json:"txHash"`
}

// listingRecord is the latest known state of a listing key. Removed listings
// are kept so that a late ItemListed from an older block cannot revive them.
type listingRecord struct {
	listing  ActiveListing
	active   bool
	logIndex uint
}

func (r listingRecord) after(l chain.Log) bool {
	if r.listing.BlockNum != l.BlockNum {
		return r.listing.BlockNum > l.BlockNum
	}
	return r.logIndex >= l.Index
}

type marketplaceIndexer struct {
	marketplace common.Address
	listings    *cache.Cache
	actions     *cache.Cache
	mu          sync.Mutex
}

func NewMarketplaceIndexer(marketplace common.Address) MarketplaceIndexer {
	return &marketplaceIndexer{
		marketplace: marketplace,
		listings:    cache.New(cache.NoExpiration, 0),
		actions:     cache.New(cache.NoExpiration, 0),
	}
}

// Listen indexes every marketplace log published on the manager. Each event
// type is delivered on its own listener so logs are ordered by position, not
// by arrival.
func (i *marketplaceIndexer) Listen(manager *event.Manager) {
	for _, eventType := range event.MarketplaceEvents {
		manager.AddEventListener(eventType, func(msg interface{}) {
			l, ok := msg.(chain.Log)
			if !ok {
				zap.L().With(zap.Any("msg", msg)).Warn("Marketplace indexer: Ignoring message")
				return
			}
			if err := i.IndexLog(l); err != nil {
				zap.L().With(zap.String("txHash", l.TxHash.Hex()), zap.String("event", l.Name), zap.Error(err)).Error("Marketplace indexer: Failed to index log")
			}
		})
	}
}

func (i *marketplaceIndexer) IndexLog(l chain.Log) error {
	if l.Address != i.marketplace {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	switch ev := l.Event.(type) {
	case entity.ItemListed:
		i.executeListing(l, ev)
	case entity.ItemCanceled:
		i.executeDelisting(l, ev)
	case entity.ItemBought:
		i.executeSale(l, ev)
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedEvent, l.Name)
	}
	return nil
}

func (i *marketplaceIndexer) executeListing(l chain.Log, ev entity.ItemListed) {
	zap.L().With(
		zap.String("txHash", l.TxHash.Hex()),
		zap.String("contractAddr", ev.NftAddress.Hex()),
		zap.Uint64("tokenId", ev.TokenId),
		zap.String("seller", ev.Seller.Hex()),
		zap.String("cost", ev.Price.Dec()),
	).Info("Marketplace listing")

	listing := entity.Listing{NftAddress: ev.NftAddress, TokenId: ev.TokenId, Price: ev.Price.Clone(), Seller: ev.Seller}
	i.setListing(l, listing, true)
	i.addAction(factory.CreateListingAction(l, ev))
	i.resolveSellers(ev.NftAddress, ev.TokenId)
}

func (i *marketplaceIndexer) executeDelisting(l chain.Log, ev entity.ItemCanceled) {
	zap.L().With(
		zap.String("txHash", l.TxHash.Hex()),
		zap.String("contractAddr", ev.NftAddress.Hex()),
		zap.Uint64("tokenId", ev.TokenId),
	).Info("Marketplace delisting")

	i.setListing(l, entity.Listing{NftAddress: ev.NftAddress, TokenId: ev.TokenId, Seller: ev.Seller}, false)
	i.addAction(factory.CreateDelistingAction(l, ev))
}

func (i *marketplaceIndexer) executeSale(l chain.Log, ev entity.ItemBought) {
	zap.L().With(
		zap.String("txHash", l.TxHash.Hex()),
		zap.String("contractAddr", ev.NftAddress.Hex()),
		zap.Uint64("tokenId", ev.TokenId),
		zap.String("to", ev.Buyer.Hex()),
		zap.String("cost", ev.Price.Dec()),
	).Info("Marketplace trade")

	i.setListing(l, entity.Listing{NftAddress: ev.NftAddress, TokenId: ev.TokenId}, false)
	i.addAction(factory.CreateSaleAction(l, ev, i.sellerBefore(ev.NftAddress, ev.TokenId, l.BlockNum, l.Index)))
}

func (i *marketplaceIndexer) setListing(l chain.Log, listing entity.Listing, active bool) {
	key := listing.Slug()
	if cached, found := i.listings.Get(key); found && cached.(listingRecord).after(l) {
		zap.L().With(zap.String("listing", key), zap.Uint64("blockNum", l.BlockNum)).Debug("Marketplace indexer: Stale log")
		return
	}

	i.listings.Set(key, listingRecord{
		listing:  ActiveListing{Listing: listing, BlockNum: l.BlockNum, TxHash: l.TxHash},
		active:   active,
		logIndex: l.Index,
	}, cache.NoExpiration)
}

func (i *marketplaceIndexer) addAction(action entity.NftAction) {
	i.actions.Set(action.Slug(), action, cache.NoExpiration)
}

// sellerBefore is the seller of the latest listing of the token positioned
// before (blockNum, logIndex), or the zero address when none is indexed yet.
func (i *marketplaceIndexer) sellerBefore(nftAddress common.Address, tokenId uint64, blockNum uint64, logIndex uint) common.Address {
	var latest *entity.NftAction
	for _, action := range i.actionsOf(nftAddress, tokenId) {
		if action.Action != entity.MarketplaceListingAction || !positionedBefore(action, blockNum, logIndex) {
			continue
		}
		if latest == nil || positionedBefore(*latest, action.BlockNum, action.LogIndex) {
			a := action
			latest = &a
		}
	}
	if latest == nil {
		return common.Address{}
	}
	return latest.From
}

// resolveSellers corrects the seller of sales indexed before the listing they
// bought arrived.
func (i *marketplaceIndexer) resolveSellers(nftAddress common.Address, tokenId uint64) {
	for _, action := range i.actionsOf(nftAddress, tokenId) {
		if action.Action != entity.MarketplaceSaleAction {
			continue
		}
		seller := i.sellerBefore(nftAddress, tokenId, action.BlockNum, action.LogIndex)
		if seller != action.From {
			zap.L().With(zap.String("txHash", action.TxID.Hex()), zap.String("seller", seller.Hex())).Debug("Marketplace indexer: Resolved sale seller")
			action.From = seller
			i.addAction(action)
		}
	}
}

func (i *marketplaceIndexer) actionsOf(nftAddress common.Address, tokenId uint64) []entity.NftAction {
	actions := make([]entity.NftAction, 0)
	for _, item := range i.actions.Items() {
		action := item.Object.(entity.NftAction)
		if action.Contract == nftAddress && action.TokenId == tokenId {
			actions = append(actions, action)
		}
	}
	return actions
}

func positionedBefore(action entity.NftAction, blockNum uint64, logIndex uint) bool {
	if action.BlockNum != blockNum {
		return action.BlockNum < blockNum
	}
	return action.LogIndex < logIndex
}

// GetActiveListings returns the listings currently for sale, oldest first.
func (i *marketplaceIndexer) GetActiveListings() []ActiveListing {
	listings := make([]ActiveListing, 0)
	for _, item := range i.listings.Items() {
		record := item.Object.(listingRecord)
		if record.active {
			listings = append(listings, record.listing)
		}
	}

	sort.Slice(listings, func(a, b int) bool {
		if listings[a].BlockNum != listings[b].BlockNum {
			return listings[a].BlockNum < listings[b].BlockNum
		}
		return listings[a].Key().String() < listings[b].Key().String()
	})
	return listings
}

func (i *marketplaceIndexer) GetActions(nftAddress common.Address, tokenId uint64) []entity.NftAction {
	actions := i.actionsOf(nftAddress, tokenId)

	sort.Slice(actions, func(a, b int) bool {
		if actions[a].BlockNum != actions[b].BlockNum {
			return actions[a].BlockNum < actions[b].BlockNum
		}
		return actions[a].LogIndex < actions[b].LogIndex
	})
	return actions
}
