package entity

const (
	NftMarketplaceContract = "NftMarketplace"
	BasicNftContract       = "BasicNft"
)
