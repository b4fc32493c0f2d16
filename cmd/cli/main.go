package main

import (
	"github.com/ZilDuck/nft-marketplace/internal/client"
	"github.com/ZilDuck/nft-marketplace/internal/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
)

var rpc *client.Client

var (
	fromFlag    = &cli.StringFlag{Name: "from", Usage: "sender address, 0x or zil1 (defaults to the dev account)"}
	accountFlag = &cli.IntFlag{Name: "account", Value: 0, Usage: "index of the dev account used when --from is not set"}
	nftFlag     = &cli.StringFlag{Name: "nft", Usage: "NFT contract address (defaults to the deployed BasicNft)"}
	tokenFlag   = &cli.Uint64Flag{Name: "token-id", Required: true, Usage: "token id"}
	priceFlag   = &cli.StringFlag{Name: "price", Value: defaultPrice, Usage: "price in wei"}
)

const defaultPrice = "100000000000000000"

func main() {
	config.Init()

	app := &cli.App{
		Name:  "marketplace",
		Usage: "interact with a marketplace node",
		Before: func(c *cli.Context) error {
			var err error
			rpc, err = client.NewClient(config.Get().Rpc.Url, config.Get().Rpc.Timeout, config.Get().Rpc.Debug)
			return err
		},
		Commands: []*cli.Command{
			{
				Name:   "mint",
				Usage:  "mint a BasicNft",
				Action: mint,
				Flags:  []cli.Flag{fromFlag, accountFlag},
			},
			{
				Name:   "approve",
				Usage:  "approve the marketplace for a token",
				Action: approve,
				Flags:  []cli.Flag{fromFlag, accountFlag, tokenFlag},
			},
			{
				Name:   "list",
				Usage:  "list a token",
				Action: listItem,
				Flags:  []cli.Flag{fromFlag, accountFlag, nftFlag, tokenFlag, priceFlag},
			},
			{
				Name:   "mint-and-list",
				Usage:  "mint a BasicNft, approve the marketplace and list it",
				Action: mintAndList,
				Flags:  []cli.Flag{fromFlag, accountFlag, priceFlag},
			},
			{
				Name:   "update",
				Usage:  "change the price of a listing",
				Action: updateListing,
				Flags:  []cli.Flag{fromFlag, accountFlag, nftFlag, tokenFlag, priceFlag},
			},
			{
				Name:   "cancel",
				Usage:  "cancel a listing",
				Action: cancelListing,
				Flags:  []cli.Flag{fromFlag, accountFlag, nftFlag, tokenFlag},
			},
			{
				Name:   "buy",
				Usage:  "buy a listed token",
				Action: buyItem,
				Flags: []cli.Flag{fromFlag, accountFlag, nftFlag, tokenFlag,
					&cli.StringFlag{Name: "value", Usage: "payment in wei (defaults to the listing price)"},
				},
			},
			{
				Name:   "withdraw",
				Usage:  "withdraw the proceeds of the sender",
				Action: withdrawProceeds,
				Flags:  []cli.Flag{fromFlag, accountFlag},
			},
			{
				Name:   "listing",
				Usage:  "show the listing of a token",
				Action: getListing,
				Flags:  []cli.Flag{nftFlag, tokenFlag},
			},
			{
				Name:   "proceeds",
				Usage:  "show the proceeds of a seller",
				Action: getProceeds,
				Flags:  []cli.Flag{fromFlag, accountFlag},
			},
			{
				Name:   "active",
				Usage:  "show the active listings",
				Action: getActiveListings,
			},
			{
				Name:   "token",
				Usage:  "show the owner, approval and uri of a BasicNft token",
				Action: getToken,
				Flags:  []cli.Flag{tokenFlag},
			},
			{
				Name:   "deployments",
				Usage:  "show the contracts deployed on the node",
				Action: getDeployments,
			},
			{
				Name:   "history",
				Usage:  "show the marketplace actions of a token",
				Action: getActions,
				Flags:  []cli.Flag{nftFlag, tokenFlag},
			},
			{
				Name:   "publish",
				Usage:  "publish the marketplace address to the front end contracts file",
				Action: publish,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Value: config.Get().FrontEnd.ContractsFile, Usage: "contracts file of the front end"},
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Marketplace CLI failed")
	}
}
