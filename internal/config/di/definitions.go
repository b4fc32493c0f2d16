package di

import (
	"context"

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
	"go.uber.org/zap"
)

func Definitions(cfg *config.Config) []di.Def {
	return []di.Def{
		{
			Name: "event.manager",
			Build: func(ctn di.Container) (interface{}, error) {
				return event.NewManager(cfg.EventBuffer), nil
			},
			Close: func(obj interface{}) error {
				obj.(*event.Manager).Close()
				return nil
			},
		},
		{
			Name: "accounts",
			Build: func(ctn di.Container) (interface{}, error) {
				return chain.DevAccounts(cfg.Chain.DevAccounts), nil
			},
		},
		{
			Name: "chain",
			Build: func(ctn di.Container) (interface{}, error) {
				c := chain.New(chain.Config{ChainID: cfg.Chain.ChainID, GasPrice: cfg.Chain.GasPrice}, ctn.Get("event.manager").(*event.Manager))
				for _, account := range ctn.Get("accounts").([]common.Address) {
					if err := c.Fund(context.Background(), account, cfg.Chain.DevAccountBalance); err != nil {
						c.Close()
						return nil, err
					}
				}
				return c, nil
			},
			Close: func(obj interface{}) error {
				obj.(*chain.Chain).Close()
				return nil
			},
		},
		{
			Name: "deployment",
			Build: func(ctn di.Container) (interface{}, error) {
				accounts := ctn.Get("accounts").([]common.Address)
				if len(accounts) == 0 {
					return nil, ErrNoDeployer
				}
				return deploy.Run(context.Background(), ctn.Get("chain").(*chain.Chain), accounts[0])
			},
		},
		{
			Name: "addressbook",
			Build: func(ctn di.Container) (interface{}, error) {
				return addressbook.NewPublisher(cfg.FrontEnd.ContractsFile), nil
			},
		},
		{
			Name: "marketplace.indexer",
			Build: func(ctn di.Container) (interface{}, error) {
				deployment, err := ctn.SafeGet("deployment")
				if err != nil {
					return nil, err
				}
				return indexer.NewMarketplaceIndexer(deployment.(*deploy.Deployment).Marketplace.Address()), nil
			},
		},
		{
			Name: "messenger",
			Build: func(ctn di.Container) (interface{}, error) {
				client, err := messenger.NewSqsClient(cfg.Aws)
				if err != nil {
					return nil, err
				}
				zap.L().With(zap.String("queue", cfg.Aws.SqsQueueUrl)).Info("Messenger: SQS notifications enabled")
				return messenger.NewMessenger(client, cfg.Aws.SqsQueueUrl), nil
			},
		},
		{
			Name: "notifier",
			Build: func(ctn di.Container) (interface{}, error) {
				messages, err := ctn.SafeGet("messenger")
				if err != nil {
					return nil, err
				}
				return messenger.NewNotifier(messages.(messenger.MessageService)), nil
			},
		},
		{
			Name: "server",
			Build: func(ctn di.Container) (interface{}, error) {
				deployment, err := ctn.SafeGet("deployment")
				if err != nil {
					return nil, err
				}
				return server.NewServer(
					ctn.Get("chain").(*chain.Chain),
					deployment.(*deploy.Deployment),
					ctn.Get("marketplace.indexer").(indexer.MarketplaceIndexer),
					ctn.Get("accounts").([]common.Address),
				), nil
			},
		},
	}
}
