package nft

import (
	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

const (
	Name     = "Dogie"
	Symbol   = "DOG"
	TokenUri = "ipfs://bafybeig37ioir76s7mg5oobetncojcm3c3hxasyd4rvid4jqhy4gkaheg4/?filename=0-PUG.json"
)

// Token is the ERC-721 surface the marketplace relies on.
type Token interface {
	chain.Contract
	OwnerOf(env *chain.Env, tokenId uint64) (common.Address, error)
	GetApproved(env *chain.Env, tokenId uint64) (common.Address, error)
	IsApprovedForAll(env *chain.Env, owner, operator common.Address) bool
	TransferFrom(env *chain.Env, from, to common.Address, tokenId uint64) error
}

// BasicNft mints sequential token ids that all share one token uri.
type BasicNft struct {
	address      common.Address
	tokenCounter uint64
	owners       map[uint64]common.Address
	balances     map[common.Address]uint64
	approvals    map[uint64]common.Address
	operators    map[common.Address]map[common.Address]bool
}

var _ Token = (*BasicNft)(nil)

func NewBasicNft(address common.Address) *BasicNft {
	return &BasicNft{
		address:   address,
		owners:    make(map[uint64]common.Address),
		balances:  make(map[common.Address]uint64),
		approvals: make(map[uint64]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (n *BasicNft) ContractName() string {
	return entity.BasicNftContract
}

func (n *BasicNft) Address() common.Address {
	return n.address
}

// MintNft mints the next token id to the caller and returns it.
func (n *BasicNft) MintNft(env *chain.Env) (uint64, error) {
	tokenId := n.tokenCounter
	to := env.Caller()

	prevCounter := n.tokenCounter
	if err := env.Record(func() { n.tokenCounter = prevCounter }); err != nil {
		return 0, err
	}
	n.tokenCounter++

	if err := n.setOwner(env, tokenId, to); err != nil {
		return 0, err
	}
	if err := n.addBalance(env, to, 1); err != nil {
		return 0, err
	}

	return tokenId, env.Emit(entity.Transfer{From: common.Address{}, To: to, TokenId: tokenId})
}

func (n *BasicNft) TokenURI(_ *chain.Env, tokenId uint64) (string, error) {
	if _, ok := n.owners[tokenId]; !ok {
		return "", ErrNonexistentToken
	}
	return TokenUri, nil
}

func (n *BasicNft) GetTokenCounter(_ *chain.Env) uint64 {
	return n.tokenCounter
}

func (n *BasicNft) BalanceOf(_ *chain.Env, owner common.Address) (uint64, error) {
	if entity.IsZeroAddress(owner) {
		return 0, ErrZeroAddress
	}
	return n.balances[owner], nil
}

func (n *BasicNft) OwnerOf(_ *chain.Env, tokenId uint64) (common.Address, error) {
	owner, ok := n.owners[tokenId]
	if !ok {
		return common.Address{}, ErrNonexistentToken
	}
	return owner, nil
}

func (n *BasicNft) GetApproved(_ *chain.Env, tokenId uint64) (common.Address, error) {
	if _, ok := n.owners[tokenId]; !ok {
		return common.Address{}, ErrNonexistentToken
	}
	return n.approvals[tokenId], nil
}

func (n *BasicNft) IsApprovedForAll(_ *chain.Env, owner, operator common.Address) bool {
	return n.operators[owner][operator]
}

// Approve lets to transfer tokenId. Only the owner or one of its operators may
// approve; the zero address clears the approval.
func (n *BasicNft) Approve(env *chain.Env, to common.Address, tokenId uint64) error {
	owner, err := n.OwnerOf(env, tokenId)
	if err != nil {
		return err
	}
	if to == owner {
		return ErrApproveToOwner
	}
	if env.Caller() != owner && !n.IsApprovedForAll(env, owner, env.Caller()) {
		return ErrNotOwnerNorApproved
	}

	if err := n.setApproval(env, tokenId, to); err != nil {
		return err
	}
	return env.Emit(entity.Approval{Owner: owner, Approved: to, TokenId: tokenId})
}

func (n *BasicNft) SetApprovalForAll(env *chain.Env, operator common.Address, approved bool) error {
	owner := env.Caller()
	if owner == operator {
		return ErrApproveToCaller
	}

	prev, had := n.operators[owner][operator]
	if err := env.Record(func() {
		if had {
			n.operators[owner][operator] = prev
		} else {
			delete(n.operators[owner], operator)
		}
	}); err != nil {
		return err
	}
	if _, ok := n.operators[owner]; !ok {
		n.operators[owner] = make(map[common.Address]bool)
	}
	n.operators[owner][operator] = approved

	return env.Emit(entity.ApprovalForAll{Owner: owner, Operator: operator, Approved: approved})
}

// TransferFrom moves tokenId from its owner. The caller must be the owner, the
// approved address of the token or an operator of the owner.
func (n *BasicNft) TransferFrom(env *chain.Env, from, to common.Address, tokenId uint64) error {
	owner, err := n.OwnerOf(env, tokenId)
	if err != nil {
		return err
	}
	spender := env.Caller()
	if spender != owner && n.approvals[tokenId] != spender && !n.IsApprovedForAll(env, owner, spender) {
		return ErrNotOwnerNorApproved
	}
	if owner != from {
		return ErrIncorrectOwner
	}
	if entity.IsZeroAddress(to) {
		return ErrTransferToZero
	}

	if err := n.setApproval(env, tokenId, common.Address{}); err != nil {
		return err
	}
	if err := n.addBalance(env, from, -1); err != nil {
		return err
	}
	if err := n.addBalance(env, to, 1); err != nil {
		return err
	}
	if err := n.setOwner(env, tokenId, to); err != nil {
		return err
	}

	return env.Emit(entity.Transfer{From: from, To: to, TokenId: tokenId})
}

func (n *BasicNft) setOwner(env *chain.Env, tokenId uint64, owner common.Address) error {
	prev, had := n.owners[tokenId]
	if err := env.Record(func() {
		if had {
			n.owners[tokenId] = prev
		} else {
			delete(n.owners, tokenId)
		}
	}); err != nil {
		return err
	}
	n.owners[tokenId] = owner
	return nil
}

func (n *BasicNft) setApproval(env *chain.Env, tokenId uint64, approved common.Address) error {
	prev, had := n.approvals[tokenId]
	if err := env.Record(func() {
		if had {
			n.approvals[tokenId] = prev
		} else {
			delete(n.approvals, tokenId)
		}
	}); err != nil {
		return err
	}
	if entity.IsZeroAddress(approved) {
		delete(n.approvals, tokenId)
		return nil
	}
	n.approvals[tokenId] = approved
	return nil
}

func (n *BasicNft) addBalance(env *chain.Env, owner common.Address, delta int64) error {
	prev := n.balances[owner]
	if err := env.Record(func() { n.balances[owner] = prev }); err != nil {
		return err
	}
	n.balances[owner] = uint64(int64(prev) + delta)
	return nil
}
