package di

import (
	"errors"

	"github.com/ZilDuck/nft-marketplace/internal/addressbook"
	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/config"
	"github.com/ZilDuck/nft-marketplace/internal/deploy"
	"github.com/ZilDuck/nft-marketplace/internal/event"
	"github.com/ZilDuck/nft-marketplace/internal/indexer"
	"github.com/ZilDuck/nft-marketplace/internal/messenger"
	"github.com/ZilDuck/nft-marketplace/internal/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sarulabs/di/v2"
)

var ErrNoDeployer = errors.New("no dev account to deploy from")

// Container gives typed access to the app scoped services.
type Container struct {
	ctn di.Container
}

func NewContainer(cfg *config.Config) (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}
	if err := builder.Add(Definitions(cfg)...); err != nil {
		return nil, err
	}
	return &Container{ctn: builder.Build()}, nil
}

// Delete closes every built service, the chain before the event manager.
func (c *Container) Delete() error {
	return c.ctn.Delete()
}

func (c *Container) GetEventManager() *event.Manager {
	return c.ctn.Get("event.manager").(*event.Manager)
}

func (c *Container) GetAccounts() []common.Address {
	return c.ctn.Get("accounts").([]common.Address)
}

func (c *Container) GetChain() *chain.Chain {
	return c.ctn.Get("chain").(*chain.Chain)
}

func (c *Container) SafeGetDeployment() (*deploy.Deployment, error) {
	obj, err := c.ctn.SafeGet("deployment")
	if err != nil {
		return nil, err
	}
	return obj.(*deploy.Deployment), nil
}

func (c *Container) GetAddressBook() addressbook.Publisher {
	return c.ctn.Get("addressbook").(addressbook.Publisher)
}

func (c *Container) GetMarketplaceIndexer() indexer.MarketplaceIndexer {
	return c.ctn.Get("marketplace.indexer").(indexer.MarketplaceIndexer)
}

func (c *Container) SafeGetNotifier() (*messenger.Notifier, error) {
	obj, err := c.ctn.SafeGet("notifier")
	if err != nil {
		return nil, err
	}
	return obj.(*messenger.Notifier), nil
}

func (c *Container) SafeGetServer() (*server.Server, error) {
	obj, err := c.ctn.SafeGet("server")
	if err != nil {
		return nil, err
	}
	return obj.(*server.Server), nil
}
