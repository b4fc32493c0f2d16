package server

import (
	"net/http"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/indexer"
	"github.com/ZilDuck/nft-marketplace/internal/marketplace"
)

type MarketplaceService struct {
	marketplace *marketplace.Binding
	indexer     indexer.MarketplaceIndexer
}

func (s *MarketplaceService) ListItem(r *http.Request, args *ListItemArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From, "nftAddress": args.NftAddress, "tokenId": args.TokenId, "price": args.Price}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Marketplace.ListItem", err, extra)
	}
	nftAddress, err := parseAddress("nftAddress", args.NftAddress)
	if err != nil {
		return rpcError("Marketplace.ListItem", err, extra)
	}
	price, err := parseAmount("price", args.Price)
	if err != nil {
		return rpcError("Marketplace.ListItem", err, extra)
	}

	receipt, err := s.marketplace.ListItem(r.Context(), chain.TxOpts{From: from}, nftAddress, args.TokenId, price)
	if err != nil {
		return rpcError("Marketplace.ListItem", err, extra)
	}
	return reply.fill(receipt)
}

func (s *MarketplaceService) CancelListing(r *http.Request, args *ListingArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From, "nftAddress": args.NftAddress, "tokenId": args.TokenId}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Marketplace.CancelListing", err, extra)
	}
	nftAddress, err := parseAddress("nftAddress", args.NftAddress)
	if err != nil {
		return rpcError("Marketplace.CancelListing", err, extra)
	}

	receipt, err := s.marketplace.CancelListing(r.Context(), chain.TxOpts{From: from}, nftAddress, args.TokenId)
	if err != nil {
		return rpcError("Marketplace.CancelListing", err, extra)
	}
	return reply.fill(receipt)
}

func (s *MarketplaceService) UpdateListing(r *http.Request, args *UpdateListingArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From, "nftAddress": args.NftAddress, "tokenId": args.TokenId, "newPrice": args.NewPrice}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Marketplace.UpdateListing", err, extra)
	}
	nftAddress, err := parseAddress("nftAddress", args.NftAddress)
	if err != nil {
		return rpcError("Marketplace.UpdateListing", err, extra)
	}
	newPrice, err := parseAmount("newPrice", args.NewPrice)
	if err != nil {
		return rpcError("Marketplace.UpdateListing", err, extra)
	}

	receipt, err := s.marketplace.UpdateListing(r.Context(), chain.TxOpts{From: from}, nftAddress, args.TokenId, newPrice)
	if err != nil {
		return rpcError("Marketplace.UpdateListing", err, extra)
	}
	return reply.fill(receipt)
}

func (s *MarketplaceService) BuyItem(r *http.Request, args *BuyItemArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From, "nftAddress": args.NftAddress, "tokenId": args.TokenId, "value": args.Value}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Marketplace.BuyItem", err, extra)
	}
	nftAddress, err := parseAddress("nftAddress", args.NftAddress)
	if err != nil {
		return rpcError("Marketplace.BuyItem", err, extra)
	}
	value, err := parseAmount("value", args.Value)
	if err != nil {
		return rpcError("Marketplace.BuyItem", err, extra)
	}

	receipt, err := s.marketplace.BuyItem(r.Context(), chain.TxOpts{From: from, Value: value}, nftAddress, args.TokenId)
	if err != nil {
		return rpcError("Marketplace.BuyItem", err, extra)
	}
	return reply.fill(receipt)
}

func (s *MarketplaceService) WithdrawProceeds(r *http.Request, args *FromArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Marketplace.WithdrawProceeds", err, extra)
	}

	receipt, err := s.marketplace.WithdrawProceeds(r.Context(), chain.TxOpts{From: from})
	if err != nil {
		return rpcError("Marketplace.WithdrawProceeds", err, extra)
	}
	return reply.fill(receipt)
}

func (s *MarketplaceService) GetListing(r *http.Request, args *ListingArgs, reply *ListingReply) error {
	extra := map[string]interface{}{"nftAddress": args.NftAddress, "tokenId": args.TokenId}

	nftAddress, err := parseAddress("nftAddress", args.NftAddress)
	if err != nil {
		return rpcError("Marketplace.GetListing", err, extra)
	}

	listing, err := s.marketplace.GetListing(r.Context(), nftAddress, args.TokenId)
	if err != nil {
		return rpcError("Marketplace.GetListing", err, extra)
	}
	*reply = newListingReply(listing)
	return nil
}

func (s *MarketplaceService) GetProceeds(r *http.Request, args *AddressArgs, reply *AmountReply) error {
	extra := map[string]interface{}{"address": args.Address}

	seller, err := parseAddress("address", args.Address)
	if err != nil {
		return rpcError("Marketplace.GetProceeds", err, extra)
	}

	proceeds, err := s.marketplace.GetProceeds(r.Context(), seller)
	if err != nil {
		return rpcError("Marketplace.GetProceeds", err, extra)
	}
	reply.Amount = proceeds.Dec()
	return nil
}

func (s *MarketplaceService) GetActiveListings(_ *http.Request, _ *EmptyArgs, reply *ListingsReply) error {
	listings := s.indexer.GetActiveListings()
	reply.Listings = make([]ListingReply, 0, len(listings))
	for _, listing := range listings {
		reply.Listings = append(reply.Listings, newActiveListingReply(listing))
	}
	return nil
}

func (s *MarketplaceService) GetActions(_ *http.Request, args *ListingArgs, reply *ActionsReply) error {
	nftAddress, err := parseAddress("nftAddress", args.NftAddress)
	if err != nil {
		return rpcError("Marketplace.GetActions", err, map[string]interface{}{"nftAddress": args.NftAddress, "tokenId": args.TokenId})
	}

	reply.Actions = s.indexer.GetActions(nftAddress, args.TokenId)
	return nil
}
