package server

import (
	"net/http"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
)

// NftService exposes the BasicNft deployed with the marketplace.
type NftService struct {
	nft *nft.Binding
}

func (s *NftService) MintNft(r *http.Request, args *FromArgs, reply *MintReply) error {
	extra := map[string]interface{}{"from": args.From}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Nft.MintNft", err, extra)
	}

	tokenId, receipt, err := s.nft.MintNft(r.Context(), chain.TxOpts{From: from})
	if err != nil {
		return rpcError("Nft.MintNft", err, extra)
	}
	reply.TokenId = tokenId
	return reply.Tx.fill(receipt)
}

func (s *NftService) Approve(r *http.Request, args *ApproveArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From, "to": args.To, "tokenId": args.TokenId}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Nft.Approve", err, extra)
	}
	to, err := parseAddress("to", args.To)
	if err != nil {
		return rpcError("Nft.Approve", err, extra)
	}

	receipt, err := s.nft.Approve(r.Context(), chain.TxOpts{From: from}, to, args.TokenId)
	if err != nil {
		return rpcError("Nft.Approve", err, extra)
	}
	return reply.fill(receipt)
}

func (s *NftService) SetApprovalForAll(r *http.Request, args *SetApprovalForAllArgs, reply *TxReply) error {
	extra := map[string]interface{}{"from": args.From, "operator": args.Operator, "approved": args.Approved}

	from, err := parseAddress("from", args.From)
	if err != nil {
		return rpcError("Nft.SetApprovalForAll", err, extra)
	}
	operator, err := parseAddress("operator", args.Operator)
	if err != nil {
		return rpcError("Nft.SetApprovalForAll", err, extra)
	}

	receipt, err := s.nft.SetApprovalForAll(r.Context(), chain.TxOpts{From: from}, operator, args.Approved)
	if err != nil {
		return rpcError("Nft.SetApprovalForAll", err, extra)
	}
	return reply.fill(receipt)
}

func (s *NftService) OwnerOf(r *http.Request, args *TokenArgs, reply *AddressReply) error {
	owner, err := s.nft.OwnerOf(r.Context(), args.TokenId)
	if err != nil {
		return rpcError("Nft.OwnerOf", err, map[string]interface{}{"tokenId": args.TokenId})
	}
	reply.Address = owner
	return nil
}

func (s *NftService) GetApproved(r *http.Request, args *TokenArgs, reply *AddressReply) error {
	approved, err := s.nft.GetApproved(r.Context(), args.TokenId)
	if err != nil {
		return rpcError("Nft.GetApproved", err, map[string]interface{}{"tokenId": args.TokenId})
	}
	reply.Address = approved
	return nil
}

func (s *NftService) TokenURI(r *http.Request, args *TokenArgs, reply *StringReply) error {
	uri, err := s.nft.TokenURI(r.Context(), args.TokenId)
	if err != nil {
		return rpcError("Nft.TokenURI", err, map[string]interface{}{"tokenId": args.TokenId})
	}
	reply.Value = uri
	return nil
}

func (s *NftService) GetTokenCounter(r *http.Request, _ *EmptyArgs, reply *NumberReply) error {
	counter, err := s.nft.GetTokenCounter(r.Context())
	if err != nil {
		return rpcError("Nft.GetTokenCounter", err, nil)
	}
	reply.Value = counter
	return nil
}

// GetToken reads the owner, approval and uri of a token together.
func (s *NftService) GetToken(r *http.Request, args *TokenArgs, reply *TokenReply) error {
	token, err := s.nft.Token(r.Context(), args.TokenId)
	if err != nil {
		return rpcError("Nft.GetToken", err, map[string]interface{}{"tokenId": args.TokenId})
	}
	reply.Slug = token.Slug()
	reply.Nft = token
	return nil
}
