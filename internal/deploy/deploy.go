package deploy

import (
	"context"

	"github.com/ZilDuck/nft-marketplace/internal/addressbook"
	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/marketplace"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type Deployment struct {
	ChainID     uint64
	Deployer    common.Address
	Marketplace *marketplace.Binding
	Nft         *nft.Binding
}

// Addresses returns the deployed address of each contract by name.
func (d Deployment) Addresses() map[string]common.Address {
	return map[string]common.Address{
		entity.NftMarketplaceContract: d.Marketplace.Address(),
		entity.BasicNftContract:       d.Nft.Address(),
	}
}

// Run deploys the marketplace and the basic NFT from the deployer.
func Run(ctx context.Context, c *chain.Chain, deployer common.Address) (*Deployment, error) {
	mp, err := marketplace.Deploy(ctx, c, deployer)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Deploy: Failed to deploy NftMarketplace")
		return nil, err
	}

	basicNft, err := nft.Deploy(ctx, c, deployer)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Deploy: Failed to deploy BasicNft")
		return nil, err
	}

	zap.L().With(
		zap.Uint64("chainId", c.ChainID()),
		zap.String("marketplace", mp.Address().Hex()),
		zap.String("nft", basicNft.Address().Hex()),
	).Info("Deploy: Contracts deployed")

	return &Deployment{ChainID: c.ChainID(), Deployer: deployer, Marketplace: mp, Nft: basicNft}, nil
}

// UpdateFrontEnd publishes the marketplace address for the front end.
func UpdateFrontEnd(d *Deployment, publisher addressbook.Publisher) (bool, error) {
	zap.L().Info("Deploy: Updating front end")

	changed, err := publisher.Publish(d.ChainID, entity.NftMarketplaceContract, d.Marketplace.Address())
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Deploy: Failed to update front end")
		return false, err
	}
	return changed, nil
}
