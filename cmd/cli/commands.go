package main

import (
	"encoding/json"
	"fmt"

	"github.com/ZilDuck/nft-marketplace/internal/addressbook"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func mint(c *cli.Context) error {
	from, err := sender(c)
	if err != nil {
		return err
	}

	minted, err := rpc.MintNft(c.Context, from)
	if err != nil {
		return err
	}
	zap.S().Infof("Minted token %d", minted.TokenId)
	return output(minted)
}

func approve(c *cli.Context) error {
	from, err := sender(c)
	if err != nil {
		return err
	}
	marketplace, err := rpc.Deployment(c.Context, entity.NftMarketplaceContract)
	if err != nil {
		return err
	}

	tx, err := rpc.Approve(c.Context, from, marketplace, c.Uint64("token-id"))
	if err != nil {
		return err
	}
	return output(tx)
}

func listItem(c *cli.Context) error {
	from, nftAddress, price, err := listingParams(c)
	if err != nil {
		return err
	}

	tx, err := rpc.ListItem(c.Context, from, nftAddress, c.Uint64("token-id"), price)
	if err != nil {
		return err
	}
	zap.S().Infof("Listed token %d for %s", c.Uint64("token-id"), price.Dec())
	return output(tx)
}

func mintAndList(c *cli.Context) error {
	from, nftAddress, price, err := listingParams(c)
	if err != nil {
		return err
	}
	marketplace, err := rpc.Deployment(c.Context, entity.NftMarketplaceContract)
	if err != nil {
		return err
	}

	zap.L().Info("Minting...")
	minted, err := rpc.MintNft(c.Context, from)
	if err != nil {
		return err
	}

	zap.L().Info("Approving NFT...")
	if _, err := rpc.Approve(c.Context, from, marketplace, minted.TokenId); err != nil {
		return err
	}

	zap.L().Info("Listing NFT...")
	tx, err := rpc.ListItem(c.Context, from, nftAddress, minted.TokenId, price)
	if err != nil {
		return err
	}
	zap.S().Infof("Listed token %d", minted.TokenId)
	return output(tx)
}

func updateListing(c *cli.Context) error {
	from, nftAddress, price, err := listingParams(c)
	if err != nil {
		return err
	}

	tx, err := rpc.UpdateListing(c.Context, from, nftAddress, c.Uint64("token-id"), price)
	if err != nil {
		return err
	}
	return output(tx)
}

func cancelListing(c *cli.Context) error {
	from, err := sender(c)
	if err != nil {
		return err
	}
	nftAddress, err := nftContract(c)
	if err != nil {
		return err
	}

	tx, err := rpc.CancelListing(c.Context, from, nftAddress, c.Uint64("token-id"))
	if err != nil {
		return err
	}
	return output(tx)
}

func buyItem(c *cli.Context) error {
	from, err := sender(c)
	if err != nil {
		return err
	}
	nftAddress, err := nftContract(c)
	if err != nil {
		return err
	}

	var value *uint256.Int
	if c.String("value") != "" {
		if value, err = uint256.FromDecimal(c.String("value")); err != nil {
			return fmt.Errorf("invalid value %q: %w", c.String("value"), err)
		}
	} else {
		listing, err := rpc.GetListing(c.Context, nftAddress, c.Uint64("token-id"))
		if err != nil {
			return err
		}
		value = listing.PriceOrZero()
	}

	tx, err := rpc.BuyItem(c.Context, from, nftAddress, c.Uint64("token-id"), value)
	if err != nil {
		return err
	}
	return output(tx)
}

func withdrawProceeds(c *cli.Context) error {
	from, err := sender(c)
	if err != nil {
		return err
	}

	tx, err := rpc.WithdrawProceeds(c.Context, from)
	if err != nil {
		return err
	}
	return output(tx)
}

func getListing(c *cli.Context) error {
	nftAddress, err := nftContract(c)
	if err != nil {
		return err
	}

	listing, err := rpc.GetListing(c.Context, nftAddress, c.Uint64("token-id"))
	if err != nil {
		return err
	}
	if !listing.Exists() {
		zap.S().Infof("Token %d is not listed", c.Uint64("token-id"))
	}
	return output(listing)
}

func getProceeds(c *cli.Context) error {
	seller, err := sender(c)
	if err != nil {
		return err
	}

	proceeds, err := rpc.GetProceeds(c.Context, seller)
	if err != nil {
		return err
	}
	return output(map[string]string{"seller": seller.Hex(), "proceeds": proceeds.Dec()})
}

func getActiveListings(c *cli.Context) error {
	listings, err := rpc.GetActiveListings(c.Context)
	if err != nil {
		return err
	}
	return output(listings)
}

func getToken(c *cli.Context) error {
	token, err := rpc.GetToken(c.Context, c.Uint64("token-id"))
	if err != nil {
		return err
	}
	return output(token)
}

func getDeployments(c *cli.Context) error {
	deployments, err := rpc.Deployments(c.Context)
	if err != nil {
		return err
	}
	return output(deployments)
}

func getActions(c *cli.Context) error {
	nftAddress, err := nftContract(c)
	if err != nil {
		return err
	}

	actions, err := rpc.GetActions(c.Context, nftAddress, c.Uint64("token-id"))
	if err != nil {
		return err
	}
	return output(actions)
}

func publish(c *cli.Context) error {
	chainId, err := rpc.ChainID(c.Context)
	if err != nil {
		return err
	}
	marketplace, err := rpc.Deployment(c.Context, entity.NftMarketplaceContract)
	if err != nil {
		return err
	}

	changed, err := addressbook.NewPublisher(c.String("file")).Publish(chainId, entity.NftMarketplaceContract, marketplace)
	if err != nil {
		return err
	}
	if !changed {
		zap.S().Infof("%s already published for chain %d", marketplace.Hex(), chainId)
	}
	return nil
}

func sender(c *cli.Context) (common.Address, error) {
	if c.String("from") != "" {
		return entity.ParseAddress(c.String("from"))
	}

	accounts, err := rpc.Accounts(c.Context)
	if err != nil {
		return common.Address{}, err
	}
	index := c.Int("account")
	if index < 0 || index >= len(accounts) {
		return common.Address{}, fmt.Errorf("account %d out of range, node has %d dev accounts", index, len(accounts))
	}
	return accounts[index], nil
}

func nftContract(c *cli.Context) (common.Address, error) {
	if c.String("nft") != "" {
		return entity.ParseAddress(c.String("nft"))
	}
	return rpc.Deployment(c.Context, entity.BasicNftContract)
}

func listingParams(c *cli.Context) (common.Address, common.Address, *uint256.Int, error) {
	from, err := sender(c)
	if err != nil {
		return common.Address{}, common.Address{}, nil, err
	}
	nftAddress, err := nftContract(c)
	if err != nil {
		return common.Address{}, common.Address{}, nil, err
	}
	price, err := uint256.FromDecimal(c.String("price"))
	if err != nil {
		return common.Address{}, common.Address{}, nil, fmt.Errorf("invalid price %q: %w", c.String("price"), err)
	}
	return from, nftAddress, price, nil
}

func output(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
