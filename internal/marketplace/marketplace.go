package marketplace

import (
	"fmt"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// NftMarketplace escrows nothing but the sale proceeds: listed tokens stay with
// their owner, who approves the marketplace to move them on purchase.
type NftMarketplace struct {
	address  common.Address
	listings map[entity.ListingKey]entity.Listing
	proceeds map[common.Address]*uint256.Int
	entered  bool
}

func NewNftMarketplace(address common.Address) *NftMarketplace {
	return &NftMarketplace{
		address:  address,
		listings: make(map[entity.ListingKey]entity.Listing),
		proceeds: make(map[common.Address]*uint256.Int),
	}
}

func (m *NftMarketplace) ContractName() string {
	return entity.NftMarketplaceContract
}

func (m *NftMarketplace) Address() common.Address {
	return m.address
}

func (m *NftMarketplace) ListItem(env *chain.Env, nftAddress common.Address, tokenId uint64, price *uint256.Int) error {
	return env.Atomic(func() error {
		if err := nonPayable(env); err != nil {
			return err
		}
		if price == nil || price.IsZero() {
			return ErrPriceMustBeAboveZero
		}

		token, tokenEnv, err := m.token(env, nftAddress)
		if err != nil {
			return err
		}
		owner, err := token.OwnerOf(tokenEnv, tokenId)
		if err != nil {
			return err
		}
		if owner != env.Caller() {
			return ErrNotOwner
		}
		approved, err := token.GetApproved(tokenEnv, tokenId)
		if err != nil {
			return err
		}
		if approved != m.address && !token.IsApprovedForAll(tokenEnv, owner, m.address) {
			return ErrNotApprovedForMarketplace
		}

		key := entity.ListingKey{NftAddress: nftAddress, TokenId: tokenId}
		if _, listed := m.listings[key]; listed {
			return ErrAlreadyListed
		}

		listing := entity.Listing{NftAddress: nftAddress, TokenId: tokenId, Price: price.Clone(), Seller: env.Caller()}
		if err := m.setListing(env, key, &listing); err != nil {
			return err
		}

		return env.Emit(entity.ItemListed{Seller: listing.Seller, NftAddress: nftAddress, TokenId: tokenId, Price: price.Clone()})
	})
}

func (m *NftMarketplace) CancelListing(env *chain.Env, nftAddress common.Address, tokenId uint64) error {
	return env.Atomic(func() error {
		if err := nonPayable(env); err != nil {
			return err
		}

		key := entity.ListingKey{NftAddress: nftAddress, TokenId: tokenId}
		listing, err := m.sellerListing(env, key)
		if err != nil {
			return err
		}

		if err := m.setListing(env, key, nil); err != nil {
			return err
		}

		return env.Emit(entity.ItemCanceled{Seller: listing.Seller, NftAddress: nftAddress, TokenId: tokenId})
	})
}

// UpdateListing reprices a listing. It emits ItemListed again rather than a
// dedicated event.
func (m *NftMarketplace) UpdateListing(env *chain.Env, nftAddress common.Address, tokenId uint64, newPrice *uint256.Int) error {
	return env.Atomic(func() error {
		if err := nonPayable(env); err != nil {
			return err
		}

		key := entity.ListingKey{NftAddress: nftAddress, TokenId: tokenId}
		listing, err := m.sellerListing(env, key)
		if err != nil {
			return err
		}
		if newPrice == nil || newPrice.IsZero() {
			return ErrPriceMustBeAboveZero
		}

		listing.Price = newPrice.Clone()
		if err := m.setListing(env, key, &listing); err != nil {
			return err
		}

		return env.Emit(entity.ItemListed{Seller: listing.Seller, NftAddress: nftAddress, TokenId: tokenId, Price: newPrice.Clone()})
	})
}

// BuyItem credits the seller with the full attached value, removes the
// listing and moves the token to the buyer, all or nothing.
func (m *NftMarketplace) BuyItem(env *chain.Env, nftAddress common.Address, tokenId uint64) error {
	return env.Atomic(func() error {
		return m.nonReentrant(env, func() error {
			key := entity.ListingKey{NftAddress: nftAddress, TokenId: tokenId}
			listing, listed := m.listings[key]
			if !listed {
				return ErrNotListed
			}

			payment := env.Value()
			if payment.Lt(listing.Price) {
				return fmt.Errorf("%w: sent %s, price %s", ErrPriceNotMet, payment.Dec(), listing.Price.Dec())
			}

			proceeds, overflow := new(uint256.Int).AddOverflow(m.proceedsOf(listing.Seller), payment)
			if overflow {
				return ErrProceedsOverflow
			}
			if err := m.setProceeds(env, listing.Seller, proceeds); err != nil {
				return err
			}
			if err := m.setListing(env, key, nil); err != nil {
				return err
			}

			token, tokenEnv, err := m.token(env, nftAddress)
			if err != nil {
				return err
			}
			if err := token.TransferFrom(tokenEnv, listing.Seller, env.Caller(), tokenId); err != nil {
				return err
			}

			return env.Emit(entity.ItemBought{Buyer: env.Caller(), NftAddress: nftAddress, TokenId: tokenId, Price: listing.Price.Clone()})
		})
	})
}

// WithdrawProceeds zeroes the caller's proceeds before paying them out.
func (m *NftMarketplace) WithdrawProceeds(env *chain.Env) error {
	return env.Atomic(func() error {
		if err := nonPayable(env); err != nil {
			return err
		}
		return m.nonReentrant(env, func() error {
			seller := env.Caller()
			proceeds := m.proceedsOf(seller)
			if proceeds.IsZero() {
				return ErrNoProceeds
			}

			if err := m.setProceeds(env, seller, new(uint256.Int)); err != nil {
				return err
			}
			if err := env.Transfer(seller, proceeds); err != nil {
				return fmt.Errorf("%w: %w", ErrTransferFailed, err)
			}
			return nil
		})
	})
}

// GetListing returns a listing with a zero price and seller when the token is
// not listed.
func (m *NftMarketplace) GetListing(_ *chain.Env, nftAddress common.Address, tokenId uint64) entity.Listing {
	key := entity.ListingKey{NftAddress: nftAddress, TokenId: tokenId}
	if listing, ok := m.listings[key]; ok {
		listing.Price = listing.Price.Clone()
		return listing
	}
	return entity.Listing{NftAddress: nftAddress, TokenId: tokenId, Price: new(uint256.Int)}
}

func (m *NftMarketplace) GetProceeds(_ *chain.Env, seller common.Address) *uint256.Int {
	return m.proceedsOf(seller).Clone()
}

func (m *NftMarketplace) token(env *chain.Env, nftAddress common.Address) (nft.Token, *chain.Env, error) {
	contract, ok := env.Contract(nftAddress)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedNft, nftAddress.Hex())
	}
	token, ok := contract.(nft.Token)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedNft, nftAddress.Hex())
	}
	tokenEnv, err := env.Call(nftAddress)
	if err != nil {
		return nil, nil, err
	}
	return token, tokenEnv, nil
}

func (m *NftMarketplace) sellerListing(env *chain.Env, key entity.ListingKey) (entity.Listing, error) {
	listing, listed := m.listings[key]
	if !listed {
		return entity.Listing{}, ErrNotListed
	}
	if listing.Seller != env.Caller() {
		return entity.Listing{}, ErrNotOwner
	}
	return listing, nil
}

func (m *NftMarketplace) nonReentrant(env *chain.Env, fn func() error) error {
	if m.entered {
		return ErrReentrantCall
	}
	if err := m.setEntered(env, true); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return m.setEntered(env, false)
}

func nonPayable(env *chain.Env) error {
	if !env.Value().IsZero() {
		return ErrNonPayable
	}
	return nil
}

func (m *NftMarketplace) proceedsOf(seller common.Address) *uint256.Int {
	if proceeds, ok := m.proceeds[seller]; ok {
		return proceeds
	}
	return new(uint256.Int)
}

// setListing writes or, with a nil listing, deletes a listing.
func (m *NftMarketplace) setListing(env *chain.Env, key entity.ListingKey, listing *entity.Listing) error {
	prev, had := m.listings[key]
	if err := env.Record(func() {
		if had {
			m.listings[key] = prev
		} else {
			delete(m.listings, key)
		}
	}); err != nil {
		return err
	}

	if listing == nil {
		delete(m.listings, key)
		return nil
	}
	m.listings[key] = *listing
	return nil
}

func (m *NftMarketplace) setProceeds(env *chain.Env, seller common.Address, amount *uint256.Int) error {
	prev, had := m.proceeds[seller]
	if err := env.Record(func() {
		if had {
			m.proceeds[seller] = prev
		} else {
			delete(m.proceeds, seller)
		}
	}); err != nil {
		return err
	}

	if amount.IsZero() {
		delete(m.proceeds, seller)
		return nil
	}
	m.proceeds[seller] = amount
	return nil
}

func (m *NftMarketplace) setEntered(env *chain.Env, entered bool) error {
	prev := m.entered
	if err := env.Record(func() { m.entered = prev }); err != nil {
		return err
	}
	m.entered = entered
	return nil
}
