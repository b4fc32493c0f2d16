package event

type Type string

const (
	ItemListedEvent     Type = "ItemListed"
	ItemCanceledEvent   Type = "ItemCanceled"
	ItemBoughtEvent     Type = "ItemBought"
	TransferEvent       Type = "Transfer"
	ApprovalEvent       Type = "Approval"
	ApprovalForAllEvent Type = "ApprovalForAll"
)

var MarketplaceEvents = []Type{ItemListedEvent, ItemCanceledEvent, ItemBoughtEvent}
